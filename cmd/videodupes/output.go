package main

import (
	"fmt"
	"io"
	"os"

	"videodupes/internal/app"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// newProgress renders seed progress on stderr. The bar is created lazily
// because the file count is only known once the directory has been listed.
func newProgress() func(done, total int) {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("Comparing videos"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
			)
		}
		_ = bar.Set(done)
	}
}

func printSummary(w io.Writer, res app.Result) {
	summaryStyle := color.New(color.Bold, color.FgCyan)
	valueStyle := color.New(color.Bold)
	successStyle := color.New(color.FgGreen)
	warnStyle := color.New(color.FgYellow)

	summaryStyle.Fprintln(w, "Summary")
	fmt.Fprint(w, "  Videos scanned:   ")
	valueStyle.Fprintln(w, len(res.Files))
	fmt.Fprint(w, "  Duplicate groups: ")
	valueStyle.Fprintln(w, len(res.Report.DuplicateGroups))

	for i, g := range res.Report.DuplicateGroups {
		fmt.Fprintf(w, "    #%d ", i+1)
		successStyle.Fprint(w, g[0])
		for _, m := range g[1:] {
			fmt.Fprint(w, ", ")
			warnStyle.Fprint(w, m)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprint(w, "  Files deleted:    ")
	valueStyle.Fprintln(w, len(res.Report.DeletedFiles))
	fmt.Fprint(w, "  Report:           ")
	successStyle.Fprintln(w, res.ReportPath)
	if res.UploadedKey != "" {
		fmt.Fprint(w, "  Uploaded as:      ")
		successStyle.Fprintln(w, res.UploadedKey)
	}
}
