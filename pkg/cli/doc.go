/*
Package cli provides command-line helpers for the tokenscope command.

Output Formatting:

Count results and provider listings render as localized text, JSON or CSV:

	format, err := cli.ParseOutputFormat(flagFormat)
	formatter := cli.NewFormatter(format, translations)
	if err := formatter.FormatTo(os.Stdout, &cli.CountResult{...}); err != nil {
		return err
	}

Progress Reporting:

A count with remote images reports one step per fetch and one for the
count, on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(urls) + 1))
	progress.Step(tr.Message("Counting", nil))
	progress.Finish()

Errors:

ExitCode maps errors to exit codes and UserMessage localizes provider
errors for the terminal.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
