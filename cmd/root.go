package cmd

import (
	"context"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cvmatch/cvmatch-cli/internal/cvmatch"
	"github.com/cvmatch/cvmatch-cli/internal/logger"
	"github.com/cvmatch/cvmatch-cli/internal/session"
)

const (
	app = "cvmatch"
)

type Config struct {
	APIURL    string       `mapstructure:"api-url"`
	UserAgent string       `mapstructure:"user-agent"`
	TokenFile string       `mapstructure:"token-file"`
	Radar     *RadarConfig `mapstructure:"radar"`
}

type RadarConfig struct {
	MaxValue float64       `mapstructure:"max-value"`
	Metrics  []RadarMetric `mapstructure:"metrics"`
}

type RadarMetric struct {
	Label string  `mapstructure:"label"`
	Value float64 `mapstructure:"value"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cvmatch is a cli for the CVMatch platform: upload and verify CVs, manage your profile and render skill charts",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "CVMATCH_TOKEN_FILE"); err != nil {
		log.Fatalf("binding CVMATCH_TOKEN_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cvmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("token-file", "", "file containing the bearer token (overrides the stored session)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("token-file", rootCmd.PersistentFlags().Lookup("token-file"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		// An explicitly given config file must parse.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}

		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app + ".yaml")
	viper.SetConfigType("yaml")

	// Everything has defaults, so a missing config file is fine.
	_ = viper.ReadInConfig()
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	return l
}

// newClient builds a platform client with the config overrides applied.
func newClient(ctx context.Context, l *zap.Logger, config *Config, token string) *cvmatch.Client {
	client := cvmatch.New(ctx, l, token)

	if config.APIURL != "" {
		client.APIURL = strings.TrimRight(config.APIURL, "/")
	}
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	return client
}

// tokenStore resolves where the session token lives: the --token-file
// flag / config key / CVMATCH_TOKEN_FILE wins over the default location
// under the user config directory.
func tokenStore(config *Config) (*session.Store, error) {
	path := strings.TrimSpace(config.TokenFile)
	if path == "" {
		path = strings.TrimSpace(viper.GetString("token-file"))
	}

	if path != "" {
		return &session.Store{Path: path}, nil
	}

	return session.DefaultStore()
}

// resumeSession rebuilds the authenticated session for commands that
// need one.
func resumeSession(ctx context.Context, l *zap.Logger, config *Config) (*session.Session, *cvmatch.Client, error) {
	store, err := tokenStore(config)
	if err != nil {
		return nil, nil, err
	}

	client := newClient(ctx, l, config, "")

	sess, err := session.Resume(client, store)
	if err != nil {
		return nil, nil, err
	}

	return sess, client, nil
}
