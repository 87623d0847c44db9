package cli

import (
	"strconv"
	"time"

	"github.com/polarysfoundation/chainlab/modules/core"
	"github.com/polarysfoundation/chainlab/modules/core/block"
	"github.com/pterm/pterm"
)

const hashPreview = 16

type status interface {
	UpdateText(text string)
	Success(message ...any)
	Fail(message ...any)
}

type quietStatus struct{}

func (quietStatus) UpdateText(string) {}
func (quietStatus) Success(...any)    {}
func (quietStatus) Fail(...any)       {}

// startStatus starts a spinner, or nothing when pterm output is disabled.
func startStatus(text string) status {
	if !pterm.Output {
		return quietStatus{}
	}

	spinner, err := pterm.DefaultSpinner.WithText(text).Start()
	if err != nil {
		return quietStatus{}
	}
	return spinner
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func renderBlock(blk *block.Block) error {
	data := pterm.TableData{
		{"Index", strconv.FormatUint(blk.Index(), 10)},
		{"Timestamp", time.Unix(blk.Timestamp(), 0).Format(time.DateTime)},
		{"Data", blk.Payload()},
		{"Algorithm", blk.Algorithm().String()},
		{"Previous hash", blk.Prev()},
		{"Hash", blk.Hash()},
		{"Nonce", strconv.FormatUint(blk.Nonce(), 10)},
		{"Validator", blk.Validator()},
		{"Execution time", blk.Elapsed().String()},
	}

	return pterm.DefaultTable.WithData(data).Render()
}

func renderLedger(inspections []core.Inspection) error {
	data := pterm.TableData{{"#", "Algorithm", "Validator", "Nonce", "Data", "Previous", "Stored hash", "Actual hash", "Status"}}

	for _, in := range inspections {
		status := pterm.Green("OK")
		actual := shorten(in.Actual, hashPreview)
		if in.Tampered {
			status = pterm.Red("TAMPERED")
			actual = pterm.Red(actual)
		}

		data = append(data, []string{
			strconv.Itoa(in.Index),
			in.Algorithm.String(),
			in.Validator,
			strconv.FormatUint(in.Nonce, 10),
			shorten(in.Payload, 24),
			shorten(in.Prev, hashPreview),
			shorten(in.Stored, hashPreview),
			actual,
			status,
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(data).Render()
}
