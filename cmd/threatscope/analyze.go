package main

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"threatscope/internal/logger"
	"threatscope/internal/validate"
)

func newAnalyzeCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "analyze [ip...]",
		Short: "Analyze addresses once and print the records as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := append([]string{}, args...)
			if file != "" {
				fromFile, err := readTargets(file)
				if err != nil {
					return err
				}
				targets = append(targets, fromFile...)
			}
			if len(targets) == 0 {
				return errors.New("no addresses given")
			}

			a, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer a.Close()
			log := logger.WithComponent("analyze")

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			failed := 0
			for _, raw := range targets {
				ip := validate.Normalize(raw)
				if !validate.IsIPv4(ip) {
					log.Warn().Str("input", raw).Msg("skipping invalid address")
					continue
				}
				rec, err := a.svc.Analyze(cmd.Context(), ip)
				if err != nil {
					failed++
					log.Error().Str("ip", ip).Str("reason", a.svc.Store().State().Error).Msg("analysis failed")
					continue
				}
				if err := enc.Encode(rec); err != nil {
					return errors.Wrap(err, "write record")
				}
			}
			if failed > 0 {
				return errors.Errorf("%d of %d analyses failed", failed, len(targets))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "file with one address per line (# comments allowed)")
	return cmd
}

func readTargets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return parseTargets(f)
}

func parseTargets(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, errors.Wrap(sc.Err(), "read targets")
}
