package toc

import (
	"context"
	"os"
)

// Generate runs the whole pipeline: validate the configuration, extract
// and build the document model, balance chapters into columns, render.
// Configuration errors are reported before any extraction runs, and no
// partial diagram is ever produced: either rendering completes or the
// call fails first.
func Generate(ctx context.Context, docs []Document, cfg LayoutConfig, promote int) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	balancer, err := NewBalancer(cfg.BalanceMode)
	if err != nil {
		return "", err
	}
	tree, err := Build(ctx, docs, cfg, promote)
	if err != nil {
		return "", err
	}
	asn := balancer.Assign(tree.Chapters, cfg)
	return Render(tree, asn, cfg), nil
}

// WriteFile renders the diagram and writes it to path.
func WriteFile(ctx context.Context, path string, docs []Document, cfg LayoutConfig, promote int) error {
	out, err := Generate(ctx, docs, cfg, promote)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out), 0o644)
}
