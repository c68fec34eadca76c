package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nxadm/tail"
	"go.uber.org/zap"

	"admingrid/internal/detect"
	"admingrid/internal/model"
	"admingrid/internal/parse"
)

// Follow streams rows as they appear: ndjson and logfmt files are tailed
// from the start, the demo source emits one row per interval. Both
// channels are closed when ctx is done or the source ends.
func Follow(ctx context.Context, opt Options) (<-chan model.Record, <-chan error) {
	out := make(chan model.Record, 1024)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		kind := ResolveKind(opt)
		if kind == KindAuto {
			var err error
			if kind, err = sniffFile(opt.Path); err != nil {
				errs <- err
				return
			}
		}
		switch kind {
		case KindNDJSON, KindLogfmt:
			followFile(ctx, opt, kind, out, errs)
		case KindDemo:
			followDemo(ctx, opt, out)
		default:
			errs <- fmt.Errorf("%w: %s", ErrNotFollowable, kind)
		}
	}()

	return out, errs
}

func sniffFile(path string) (Kind, error) {
	if path == "" || path == "-" {
		return "", ErrNotFollowable
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	var sample []string
	for sc.Scan() && len(sample) < 20 {
		sample = append(sample, sc.Text())
	}
	g := detect.Format(sample)
	if g.Format == detect.FormatUnknown {
		return "", fmt.Errorf("%w: could not detect format of %s", ErrUnknownKind, path)
	}
	return Kind(g.Format), nil
}

func followFile(ctx context.Context, opt Options, kind Kind, out chan<- model.Record, errs chan<- error) {
	log := opt.logger()
	p, err := parse.NewParser(string(kind))
	if err != nil {
		errs <- err
		return
	}
	t, err := tail.TailFile(opt.Path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      true,
	})
	if err != nil {
		errs <- err
		return
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				return
			}
			if l.Err != nil {
				send(ctx, errs, l.Err)
				continue
			}
			rec, err := p.Parse(l.Text)
			if err != nil {
				log.Debug("skip line", zap.String("path", opt.Path), zap.Error(err))
				continue
			}
			ensureID(rec)
			if !emit(ctx, out, rec) {
				_ = t.Stop()
				return
			}
		}
	}
}

func followDemo(ctx context.Context, opt Options, out chan<- model.Record) {
	interval := opt.Interval
	if interval <= 0 {
		interval = time.Second
	}
	g := NewGenerator(opt.Seed)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !emit(ctx, out, g.Next()) {
				return
			}
		}
	}
}

func emit(ctx context.Context, out chan<- model.Record, rec model.Record) bool {
	select {
	case out <- rec:
		return true
	case <-ctx.Done():
		return false
	}
}

func send(ctx context.Context, errs chan<- error, err error) {
	select {
	case errs <- err:
	case <-ctx.Done():
	}
}
