package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"

	"github.com/mchmarny/fraudcheck/pkg/net"
	"golang.org/x/sync/errgroup"
)

// Options locates the artifacts. Paths may be local files or http(s) URLs;
// URLs are downloaded into CacheDir first.
type Options struct {
	ModelPath   string
	EncoderPath string
	CacheDir    string
	Token       string
}

// Store holds the classifier and encoders for the life of the process.
// It is never mutated after Load and is safe for concurrent readers.
type Store struct {
	classifier Classifier
	encoders   EncoderSet
	predictor  *Predictor
}

// NewStore assembles a Store from already loaded parts.
func NewStore(c Classifier, e EncoderSet) (*Store, error) {
	if c == nil {
		return nil, errors.New("classifier required")
	}
	if len(e) == 0 {
		return nil, errors.New("encoders required")
	}
	return &Store{
		classifier: c,
		encoders:   e,
		predictor:  NewPredictor(c),
	}, nil
}

// Load reads both artifacts concurrently and fails if either does.
func Load(ctx context.Context, opt *Options) (*Store, error) {
	if opt == nil {
		return nil, errors.New("options required")
	}

	var (
		c Classifier
		e EncoderSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := localize(gctx, opt.ModelPath, opt.CacheDir)
		if err != nil {
			return fmt.Errorf("model: %w", err)
		}
		c, err = LoadClassifier(gctx, p, &ClassifierOptions{Token: opt.Token})
		return err
	})
	g.Go(func() error {
		p, err := localize(gctx, opt.EncoderPath, opt.CacheDir)
		if err != nil {
			return fmt.Errorf("encoders: %w", err)
		}
		e, err = LoadEncoders(p)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("artifacts loaded",
		"model", opt.ModelPath,
		"encoders", opt.EncoderPath,
		"features", len(c.Features()),
		"encoded_columns", len(e))

	return NewStore(c, e)
}

func localize(ctx context.Context, p, cacheDir string) (string, error) {
	if !net.IsURL(p) {
		return p, nil
	}
	if cacheDir == "" {
		return "", fmt.Errorf("cache dir required to download %s", p)
	}

	u, err := url.Parse(p)
	if err != nil {
		return "", fmt.Errorf("parsing artifact url %s: %w", p, err)
	}

	local := filepath.Join(cacheDir, path.Base(u.Path))
	slog.Debug("downloading artifact", "url", p, "path", local)
	if err := net.Download(ctx, net.GetHTTPClient(0), p, local); err != nil {
		return "", fmt.Errorf("downloading %s: %w", p, err)
	}
	return local, nil
}

func (s *Store) Classifier() Classifier {
	return s.classifier
}

func (s *Store) Encoders() EncoderSet {
	return s.encoders
}

func (s *Store) Predictor() *Predictor {
	return s.predictor
}
