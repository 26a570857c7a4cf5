package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bloodlink/bloodbot/core/bootstrap"
	corecmd "github.com/bloodlink/bloodbot/core/cmd"
	coreconfig "github.com/bloodlink/bloodbot/core/config"
	coredatabase "github.com/bloodlink/bloodbot/core/database"
	"github.com/bloodlink/bloodbot/core/logger"
	"github.com/bloodlink/bloodbot/internal/app"
	"github.com/bloodlink/bloodbot/internal/auth"
	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/storage"
)

const defaultConfigPath = "config.yaml"

func main() {
	root := &cobra.Command{
		Use:   "bloodbot",
		Short: "Telegram bot connecting blood donors with medical centers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the Telegram bot",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runBot()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if err := logger.InitLogger(cfg); err != nil {
					return err
				}
				defer logger.Shutdown()
				return coredatabase.RunMigrations(cfg.Database)
			},
		},
		createCenterCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBot() error {
	return corecmd.Run(corecmd.Options{
		DefaultConfigPath: defaultConfigPath,
		LoadConfig:        app.LoadConfig,
		Bootstrap:         app.Bootstrap,
	})
}

func loadConfig() (*coreconfig.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	return coreconfig.Load(path)
}

// createCenterCmd seeds a medical center from the terminal, so the first
// staff login exists before the bot ever runs.
func createCenterCmd() *cobra.Command {
	var (
		name    string
		city    string
		address string
		login   string
	)
	cmd := &cobra.Command{
		Use:   "create-center",
		Short: "Create a medical center with staff credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			res, err := bootstrap.Run(bootstrap.Options{
				Config:   cfg,
				Database: cfg.Database,
			})
			if err != nil {
				return err
			}
			defer res.DB.Close()
			defer logger.Shutdown()

			password, err := readPassword("Password for staff login: ")
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			center := &domain.MedicalCenter{
				Name:         name,
				City:         city,
				Address:      address,
				Login:        login,
				PasswordHash: hash,
			}
			store := storage.NewCenterStore(res.DB)
			if err := store.Create(cmd.Context(), center); err != nil {
				return err
			}
			fmt.Printf("center %q created with id %d\n", center.Name, center.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "center name")
	cmd.Flags().StringVar(&city, "city", "", "center city")
	cmd.Flags().StringVar(&address, "address", "", "street address")
	cmd.Flags().StringVar(&login, "login", "", "staff login")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("city")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("login")
	return cmd
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	password := strings.TrimSpace(string(raw))
	if password == "" {
		return "", fmt.Errorf("empty password")
	}
	return password, nil
}
