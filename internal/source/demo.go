package source

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"admingrid/internal/model"
)

const defaultDemoRows = 120

var (
	demoTopics     = []string{"Safety", "Onboarding", "Compliance", "Leadership", "Customer Care", "Data Privacy", "First Aid", "Inclusion"}
	demoLevels     = []string{"101", "201", "Essentials", "Advanced", "Refresher"}
	demoCategories = []string{"required", "elective", "pilot"}
	demoStatuses   = []string{"draft", "review", "published", "archived"}
	demoFirst      = []string{"Ada", "Grace", "Linus", "Margaret", "Ken", "Barbara", "Dennis", "Frances"}
	demoLast       = []string{"Lovelace", "Hopper", "Torvalds", "Hamilton", "Thompson", "Liskov", "Ritchie", "Allen"}
	demoEpoch      = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
)

// Generator produces deterministic learning-module rows.
type Generator struct {
	rng *rand.Rand
	n   int
}

func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = 1
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// DemoRows returns n generated rows; the same seed yields the same rows.
func DemoRows(n int, seed int64) []model.Record {
	if n <= 0 {
		n = defaultDemoRows
	}
	g := NewGenerator(seed)
	out := make([]model.Record, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

func (g *Generator) Next() model.Record {
	g.n++
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		id = uuid.New()
	}
	first, last := g.pick(demoFirst), g.pick(demoLast)
	units := make([]any, 1+g.rng.Intn(6))
	for i := range units {
		units[i] = fmt.Sprintf("unit-%d", i+1)
	}
	status := g.pick(demoStatuses)
	created := demoEpoch.Add(time.Duration(g.rng.Intn(365*24)) * time.Hour)
	return model.Record{
		"id":        id.String(),
		"title":     g.pick(demoTopics) + " " + g.pick(demoLevels),
		"category":  g.pick(demoCategories),
		"status":    status,
		"published": status == "published",
		"order":     float64(g.n),
		"enrolled":  float64(g.rng.Intn(2000)),
		"units":     units,
		"createdAt": created.Format(time.RFC3339),
		"author": map[string]any{
			"name":  first + " " + last,
			"email": strings.ToLower(first+"."+last) + "@example.edu",
		},
	}
}

func (g *Generator) pick(from []string) string {
	return from[g.rng.Intn(len(from))]
}
