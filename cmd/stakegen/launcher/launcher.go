package launcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-stakegen/bootstrap"
	"github.com/rony4d/go-stakegen/chains/bitcoin"
	"github.com/rony4d/go-stakegen/chains/xrpl"
	"github.com/rony4d/go-stakegen/flags"
	"github.com/rony4d/go-stakegen/inter"
	"github.com/rony4d/go-stakegen/registry"
)

// Launch assembles the CLI application and runs it with the given
// arguments. It is the only entry point main needs.
func Launch(args []string) error {
	app := flags.NewApp()
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.ChainFlags()...)
	app.Flags = append(app.Flags, flags.RegistryFlags()...)
	app.Action = derive
	app.Commands = []cli.Command{
		payloadCommand(),
	}
	return app.Run(args)
}

// derive is the default action: run the full pipeline against the
// configured source chain and write the genesis fragment.
func derive(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	log, err := makeLogger(cfg.Logging)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"chain":      cfg.Rules.Name,
		"collection": cfg.Rules.CollectionAddress,
		"rules":      cfg.Rules.String(),
	}).Info("effective configuration")

	reader, err := makeReader(cfg)
	if err != nil {
		return err
	}
	reg, err := registry.Dial(cfg.RegistryRPC, common.HexToAddress(cfg.RegistryContract))
	if err != nil {
		return fmt.Errorf("dial validator registry: %w", err)
	}

	pipeline, err := bootstrap.NewPipeline(cfg.Rules, reader, reg, log)
	if err != nil {
		return err
	}
	fragment, report, err := pipeline.Run(context.Background())
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(fragment, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fragment: %w", err)
	}
	digest := sha256.Sum256(raw)

	if cfg.Output.DryRun {
		log.WithFields(logrus.Fields{
			"accepted": report.Accepted,
			"rejected": len(report.Rejected),
			"sha256":   hex.EncodeToString(digest[:]),
		}).Info("dry run, fragment not written")
		summary, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		fmt.Fprintln(ctx.App.Writer, string(summary))
		return nil
	}

	if err := writeFileAtomic(cfg.Output.Path, raw); err != nil {
		return fmt.Errorf("write fragment: %w", err)
	}
	log.WithFields(logrus.Fields{
		"path":   cfg.Output.Path,
		"bytes":  len(raw),
		"sha256": hex.EncodeToString(digest[:]),
	}).Info("genesis fragment written")
	return nil
}

// makeReader builds the chain reader matching the configured rules kind.
func makeReader(cfg Config) (bootstrap.ChainReader, error) {
	switch cfg.Rules.Kind {
	case inter.KindUTXO:
		return bitcoin.NewClient(cfg.IndexerURL, nil), nil
	case inter.KindLedger:
		return xrpl.NewClient(cfg.IndexerURL, nil), nil
	default:
		return nil, fmt.Errorf("no chain reader for kind %s", cfg.Rules.Kind)
	}
}

// makeLogger configures the process logger from the logging config.
func makeLogger(cfg LoggingConfig) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	switch {
	case cfg.Verbosity <= 0:
		log.SetLevel(logrus.FatalLevel)
	case cfg.Verbosity == 1:
		log.SetLevel(logrus.ErrorLevel)
	case cfg.Verbosity == 2:
		log.SetLevel(logrus.WarnLevel)
	case cfg.Verbosity == 3:
		log.SetLevel(logrus.InfoLevel)
	case cfg.Verbosity == 4:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.TraceLevel)
	}

	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{ForceColors: cfg.Color, DisableColors: !cfg.Color})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("init sentry hook: %w", err)
		}
		log.AddHook(hook)
	}
	return log, nil
}

// writeFileAtomic writes data to path via a temp file in the same
// directory followed by a rename, so a crashed run never leaves a
// truncated fragment behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// payloadCommand builds the stake payload a user must embed in their
// bootstrap transaction: an OP_RETURN script for UTXO chains, a memo data
// blob for ledger chains.
func payloadCommand() cli.Command {
	return cli.Command{
		Name:      "payload",
		Usage:     "encode the stake payload for a bootstrap transaction",
		ArgsUsage: "<dest-address-0x-hex> <validator-bech32>",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "preset",
				Usage: "Named network preset selecting the payload format",
				Value: "bitcoin-mainnet",
			},
		},
		Action: encodePayload,
	}
}

func encodePayload(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("expected <dest-address> <validator-address>, got %d args", ctx.NArg())
	}
	destText := ctx.Args().Get(0)
	if !common.IsHexAddress(destText) {
		return fmt.Errorf("destination %q is not a 0x-hex address", destText)
	}
	dest := common.HexToAddress(destText)
	validator, err := bootstrap.ParseValidatorAddress(ctx.Args().Get(1))
	if err != nil {
		return err
	}

	preset, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	var payload []byte
	switch preset.Rules.Kind {
	case inter.KindUTXO:
		payload, err = bootstrap.EncodeStakeScript(dest, validator)
	case inter.KindLedger:
		payload, err = bootstrap.EncodeStakeMemo(dest, validator)
	default:
		err = fmt.Errorf("no payload format for kind %s", preset.Rules.Kind)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, hex.EncodeToString(payload))
	return nil
}
