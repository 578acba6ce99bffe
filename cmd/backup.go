package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"droscher.com/Portafilter/pkg/backup"
)

type ExportCmd struct {
	ConfigFile string `default:".portafilter.toml" help:"Path to config file" short:"c"`
	Output     string `help:"File to write, defaults to a dated name in the working directory" short:"o" type:"path"`
}

func (e *ExportCmd) Run(cliContext *Context) error {
	logger := commandLogger(cliContext)
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := loadConfig(cliContext, e.ConfigFile, logger)
	if err != nil {
		return err
	}

	logStore, _, repo, err := openStore(context.Background(), conf, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	snapshot := logStore.Snapshot()

	document, err := backup.Export(snapshot)
	if err != nil {
		return err
	}

	output := e.Output
	if output == "" {
		output = backup.Filename(conf.Backup.Product, time.Now())
	}

	if err := os.WriteFile(output, document, 0o600); err != nil {
		logger.Error("error writing backup", zap.String("file", output), zap.Error(err))

		return err
	}

	logger.Info("exported backup", zap.String("file", output), zap.Int("beans", len(snapshot.Beans)), zap.Int("shots", len(snapshot.Shots)))

	return nil
}

type ImportCmd struct {
	ConfigFile string `default:".portafilter.toml" help:"Path to config file" short:"c"`
	File       string `arg:""                      help:"Backup file to restore"          type:"existingfile"`
	Yes        bool   `help:"Replace the log without asking" short:"y"`
}

func (i *ImportCmd) Run(cliContext *Context) error {
	logger := commandLogger(cliContext)
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := loadConfig(cliContext, i.ConfigFile, logger)
	if err != nil {
		return err
	}

	document, err := os.ReadFile(i.File)
	if err != nil {
		return err
	}

	snapshot, err := backup.Decode(document, logger)
	if err != nil {
		logger.Error("error reading backup", zap.String("file", i.File), zap.Error(err))

		return err
	}

	ctx := context.Background()

	logStore, confirmations, repo, err := openStore(ctx, conf, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	request := logStore.RequestReplace(snapshot)
	approved := i.Yes || ask(os.Stdin, os.Stdout, request.Message)

	if err := confirmations.Resolve(ctx, request.ID, approved); err != nil {
		logger.Error("error importing backup", zap.Error(err))

		return err
	}

	if approved {
		logger.Info("imported backup", zap.String("file", i.File), zap.Int("beans", len(snapshot.Beans)), zap.Int("shots", len(snapshot.Shots)))
	} else {
		logger.Info("import cancelled")
	}

	return nil
}

// ask prompts with a y/N question; anything but an explicit yes declines.
func ask(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
