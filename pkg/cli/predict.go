package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mchmarny/fraudcheck/pkg/record"
	urfave "github.com/urfave/cli/v3"
)

var (
	fileFlag = &urfave.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "CSV file with one applicant per row (- for stdin)",
		Required: true,
	}

	predictCmd = &urfave.Command{
		Name:   "predict",
		Usage:  "Classify every applicant in a CSV file",
		Action: cmdPredict,
		Flags: []urfave.Flag{
			fileFlag,
		},
	}

	schemaCmd = &urfave.Command{
		Name:   "schema",
		Usage:  "Print the columns an uploaded CSV must carry",
		Action: cmdSchema,
	}
)

func cmdPredict(ctx context.Context, cmd *urfave.Command) error {
	app, err := loadApp(ctx, cmd)
	if err != nil {
		return err
	}

	in, closer, err := openInput(cmd.String(fileFlag.Name))
	if err != nil {
		return err
	}
	defer closer()

	t, err := record.ReadTable(in)
	if err != nil {
		return fmt.Errorf("reading applicants: %w", err)
	}

	out, err := app.Service.Batch(ctx, t)
	if err != nil {
		return fmt.Errorf("classifying applicants: %w", err)
	}

	return encode(cmd.Root().Writer, cmd.String(formatFlag.Name), tableRows(out))
}

func cmdSchema(_ context.Context, cmd *urfave.Command) error {
	return encode(cmd.Root().Writer, cmd.String(formatFlag.Name), record.RequiredColumns())
}

func openInput(p string) (io.Reader, func(), error) {
	if p == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", p, err)
	}
	return f, func() { f.Close() }, nil
}

// tableRows keys every cell by its column so the output reads per applicant.
func tableRows(t *record.Table) []map[string]string {
	out := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		m := make(map[string]string, len(t.Header))
		for j, h := range t.Header {
			m[h] = row[j]
		}
		out[i] = m
	}
	return out
}
