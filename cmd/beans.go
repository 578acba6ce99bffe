package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"droscher.com/Portafilter/pkg/view"
)

type BeansCmd struct {
	ConfigFile string `default:".portafilter.toml" help:"Path to config file" short:"c"`
}

func (b *BeansCmd) Run(cliContext *Context) error {
	logger := commandLogger(cliContext)
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := loadConfig(cliContext, b.ConfigFile, logger)
	if err != nil {
		return err
	}

	logStore, _, repo, err := openStore(context.Background(), conf, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	return writeBeans(os.Stdout, view.Summaries(logStore.Snapshot()))
}

func writeBeans(out io.Writer, summaries []view.BeanSummary) error {
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(writer, "ROASTER\tNAME\tORIGIN\tROAST\tSHOTS\tAVERAGE\tBEST")

	for _, summary := range summaries {
		average := "-"
		if summary.AverageRating != nil {
			average = fmt.Sprintf("%.1f", *summary.AverageRating)
		}

		best := "-"
		if summary.BestShot != nil {
			shot := summary.BestShot
			best = fmt.Sprintf("%.1f/10 %gg in, %gg out, %gs", shot.Rating, shot.Dose, shot.Yield, shot.Time)

			if shot.IsOptimal {
				best += " (optimal)"
			}
		}

		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			summary.Bean.Roaster, summary.Bean.Name, summary.Bean.OriginType, summary.Bean.RoastType,
			summary.ShotCount, average, best)
	}

	return writer.Flush()
}
