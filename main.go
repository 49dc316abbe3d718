package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bedrock-gophers/magic/command"
	"github.com/bedrock-gophers/magic/config"
	"github.com/bedrock-gophers/magic/host"
	"github.com/bedrock-gophers/magic/journal"
	"github.com/bedrock-gophers/magic/logging"
	"github.com/bedrock-gophers/magic/magic"
	_ "github.com/bedrock-gophers/magic/spells"
	"github.com/df-mc/dragonfly/server"
	"github.com/df-mc/dragonfly/server/player/chat"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	config   string
	spells   string
	logLevel string
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "magic",
		Short:        "Runs a server with spells.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.config, "config", "magic/config.yml", "path of the plugin configuration")
	root.PersistentFlags().StringVar(&opts.spells, "spells", "magic/spells.yml", "path of the spell templates")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "overrides log.level of the configuration")

	root.AddCommand(spellsCommand(opts), journalCommand(opts))
	return root
}

// load reads the configuration files, writing the defaults for files that do
// not exist yet.
func load(opts *options) (config.Config, config.Spells, error) {
	if _, err := os.Stat(opts.config); errors.Is(err, os.ErrNotExist) {
		if err := config.Save(opts.config, config.DefaultConfig()); err != nil {
			return config.Config{}, nil, err
		}
	}
	if _, err := os.Stat(opts.spells); errors.Is(err, os.ErrNotExist) {
		if err := config.WriteDefaultSpells(opts.spells); err != nil {
			return config.Config{}, nil, err
		}
	}
	conf, err := config.Load(opts.config)
	if err != nil {
		return config.Config{}, nil, err
	}
	if opts.logLevel != "" {
		conf.Log.Level = opts.logLevel
	}
	spells, err := config.LoadSpells(opts.spells)
	if err != nil {
		return config.Config{}, nil, err
	}
	return conf, spells, nil
}

func run(ctx context.Context, opts *options) error {
	conf, spells, err := load(opts)
	if err != nil {
		return err
	}
	log, closer, err := logging.New(conf.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	j, err := journal.Open(journal.Options{Path: conf.Undo.JournalPath, Log: log})
	if err != nil {
		return err
	}
	defer j.Close()

	c, err := magic.New(conf, spells, j, log)
	if c == nil {
		return err
	}
	if err != nil {
		log.WithError(err).Warn("Some spells could not be loaded.")
	}
	command.Register(c, func() error {
		conf, spells, err := load(opts)
		if err != nil {
			return err
		}
		return c.Load(conf, spells)
	})

	chat.Global.Subscribe(chat.StdoutSubscriber{})
	srvConf, err := server.DefaultConfig().Config(slog.Default())
	if err != nil {
		return err
	}
	srv := srvConf.New()

	worlds := host.NewWorlds(srv.World(), srv.Nether(), srv.End())
	n, err := c.Recover(worlds)
	if err != nil {
		log.WithError(err).Error("Could not recover temporary spell changes.")
	}
	if n > 0 {
		log.WithField("lists", n).Info("Recovered temporary spell changes.")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		c.Shutdown(worlds)
		if err := srv.Close(); err != nil {
			log.WithError(err).Error("Could not close server.")
		}
	}()

	srv.Listen()
	for p := range srv.Accept() {
		c.Join(p.H().UUID(), p.Name())
		p.Handle(handler{c: c})
	}
	return nil
}

func spellsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "spells",
		Short: "Lists the configured spells.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, spells, err := load(opts)
			if err != nil {
				return err
			}
			log := logrus.New()
			log.SetOutput(cmd.ErrOrStderr())
			c, err := magic.New(conf, spells, nil, log)
			if c == nil {
				return err
			}
			for _, s := range c.Spells() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-14s %v\n", s.Key(), s.Class(), s.Description())
			}
			return err
		},
	}
}

func journalCommand(opts *options) *cobra.Command {
	var wipe bool
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Shows the temporary spell changes that were not reverted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, _, err := load(opts)
			if err != nil {
				return err
			}
			j, err := journal.Open(journal.Options{Path: conf.Undo.JournalPath})
			if err != nil {
				return err
			}
			defer j.Close()

			if wipe {
				n, err := j.Clear()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries.\n", n)
				return nil
			}
			entries, err := j.Pending()
			if err != nil {
				return err
			}
			for _, e := range entries {
				dim := e.Dimension
				if dim == "" {
					dim = host.Overworld
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%v %-16s %-9s %4d blocks, expires %v\n", e.ID, e.Spell, dim, len(e.Blocks), e.Expires.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&wipe, "clear", false, "remove all entries without restoring them")
	return cmd
}
