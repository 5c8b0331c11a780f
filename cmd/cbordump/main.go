// Command cbordump decodes a CBOR blob and prints its value tree. It is
// the runnable form of the decoder's recommended public operation.
package main

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cbor "github.com/venbrinoDev/blockchain-utils"
	"github.com/venbrinoDev/blockchain-utils/config"
	applog "github.com/venbrinoDev/blockchain-utils/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		inputHex   string
		inputB64   string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "cbordump [file]",
		Short: "Decode a CBOR blob into its value tree",
		Long: "cbordump decodes a single CBOR item from a hex string, a base64 string, " +
			"a file argument, or stdin, and prints the decoded value tree.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if verbose {
				cfg.LogLevel = "trace"
			}
			applog.Configure(parseLevel(cfg.LogLevel), cmd.ErrOrStderr())

			data, err := readInput(cmd, args, inputHex, inputB64)
			if err != nil {
				return err
			}

			opts := cfg.DecodeOptions()
			if verbose {
				opts = append(opts, cbor.WithTagObserver(applog.TagDispatch))
			}

			v, consumed, err := cbor.DecodeWithLen(data, opts...)
			if err != nil {
				offset := consumed
				var cerr *cbor.CborError
				if errors.As(err, &cerr) {
					offset = cerr.Offset
				}
				applog.Error(err, offset)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", v.String())
			fmt.Fprintf(cmd.ErrOrStderr(), "consumed %d/%d bytes\n", consumed, len(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a config file (yaml/json/toml)")
	cmd.Flags().StringVar(&inputHex, "hex", "", "CBOR input as a hex string")
	cmd.Flags().StringVar(&inputB64, "base64", "", "CBOR input as a base64 string")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable trace-level tag-dispatch logging")

	return cmd
}

func parseLevel(s string) applog.Level {
	switch strings.ToLower(s) {
	case "disabled", "off":
		return applog.LevelDisabled
	case "error":
		return applog.LevelError
	case "warn", "warning":
		return applog.LevelWarn
	case "debug":
		return applog.LevelDebug
	case "trace":
		return applog.LevelTrace
	default:
		return applog.LevelInfo
	}
}

func readInput(cmd *cobra.Command, args []string, inputHex, inputB64 string) ([]byte, error) {
	switch {
	case inputHex != "":
		return hex.DecodeString(strings.TrimSpace(inputHex))
	case inputB64 != "":
		return base64.StdEncoding.DecodeString(strings.TrimSpace(inputB64))
	case len(args) == 1:
		return os.ReadFile(args[0])
	default:
		return io.ReadAll(cmd.InOrStdin())
	}
}
