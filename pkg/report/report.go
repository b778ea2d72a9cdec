// Copyright (c) 2026, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/verrazzano/opensearch-smoketest/pkg/constants"
	"github.com/verrazzano/opensearch-smoketest/pkg/smoke"
)

var (
	colorGray  = lipgloss.Color("#6b7280")
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorWhite = lipgloss.Color("#f9fafb")

	styleTitle = lipgloss.NewStyle().Bold(true)
	stylePass  = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	styleFail  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleDim   = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	colResult = 1
	maxDetail = 80
)

// Render returns the phase table of a run followed by a one line verdict
func Render(runID string, results []smoke.PhaseResult, code constants.ExitCode) string {
	t := ltable.New().
		Headers("Phase", "Result", "Duration", "Detail").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray).Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == colResult && row >= 0 && row < len(results) {
				if results[row].Succeeded() {
					return base.Foreground(colorGreen)
				}
				return base.Foreground(colorRed)
			}
			return base.Foreground(colorWhite)
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderHeader(true).
		BorderColumn(false)

	for _, result := range results {
		outcome := "PASS"
		detail := result.Detail
		if !result.Succeeded() {
			outcome = fmt.Sprintf("FAIL (%d)", result.Code)
			detail = result.Err.Error()
		}
		t = t.Row(result.Phase, outcome, result.Duration.Round(time.Millisecond).String(), truncate(detail, maxDetail))
	}

	verdict := stylePass.Render("smoke test passed")
	if code != constants.ExitOK {
		verdict = styleFail.Render(fmt.Sprintf("smoke test failed with exit code %d", code))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styleTitle.Render("OpenSearch smoke test")+" "+styleDim.Render("run "+runID),
		t.String(),
		verdict,
	)
}

// Print writes the rendered report to w
func Print(w io.Writer, runID string, results []smoke.PhaseResult, code constants.ExitCode) error {
	_, err := fmt.Fprintln(w, Render(runID, results, code))
	return err
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
