package summarize

import (
	"context"
	"errors"
)

// StaticGenerator returns a fixed response without any network call. It
// backs offline runs and tests.
type StaticGenerator struct {
	Text string
	Err  error
}

func (s *StaticGenerator) Generate(ctx context.Context, _ string, _ GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	if s.Text == "" {
		return "", errors.New("static generator: no response configured")
	}
	return s.Text, nil
}

func (s *StaticGenerator) Name() string  { return "static" }
func (s *StaticGenerator) Model() string { return "static" }
func (s *StaticGenerator) Close() error  { return nil }
