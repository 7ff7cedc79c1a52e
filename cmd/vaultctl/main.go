// Command vaultctl stores, restores, and manages encrypted vault containers
// from the command line.
//
// Configuration is resolved in order: command-line flags, VAULTCTL_*
// environment variables, then a vaultctl.yaml config file in the working
// directory or ~/.config/vaultctl.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/Lingikaushikreddy/vaulted-go/internal/constants"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/crypto"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/vault"
	pkgversion "github.com/Lingikaushikreddy/vaulted-go/pkg/version"
)

// Build-time variables (set via -ldflags)
var (
	version   = ""        // Set via -ldflags "-X main.version=x.y.z"
	buildTime = "unknown" // Set via -ldflags "-X main.buildTime=..."
	gitCommit = "unknown" // Set via -ldflags "-X main.gitCommit=..."
)

func getVersion() string {
	if version != "" {
		return version
	}
	return pkgversion.String()
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	initConfig()

	var err error
	switch command := os.Args[1]; command {
	case "keygen":
		err = keygenCommand(os.Args[2:])
	case "store":
		err = storeCommand(os.Args[2:])
	case "restore":
		err = restoreCommand(os.Args[2:])
	case "load":
		err = loadCommand(os.Args[2:])
	case "ls":
		err = lsCommand(os.Args[2:])
	case "nuke":
		err = nukeCommand(os.Args[2:])
	case "version":
		fmt.Printf("vaultctl version %s\n", getVersion())
		if buildTime != "unknown" {
			fmt.Printf("Built: %s\n", buildTime)
		}
		if gitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", gitCommit)
		}
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`vaultctl - Encrypted At-Rest Vault CLI

USAGE:
    vaultctl <command> [options]

COMMANDS:
    keygen    Generate a new 32-byte vault key (hex)
    store     Encrypt a file into the vault
    restore   Decrypt a container back to a file
    load      Decrypt a container to stdout
    ls        List containers in the vault
    nuke      Destroy the vault and everything in it
    version   Print version information
    help      Show this help message

CONFIGURATION:
    --vault / VAULTCTL_VAULT_PATH / vault.path    Vault directory
    --key   / VAULTCTL_VAULT_KEY  / vault.key     Vault key (64 hex chars)
    Config file: ./vaultctl.yaml or ~/.config/vaultctl/vaultctl.yaml

EXAMPLES:
    # Generate and export a key
    export VAULTCTL_VAULT_KEY=$(vaultctl keygen)

    # Store a file
    vaultctl store --vault ~/vault --file secrets.db

    # Restore it elsewhere
    vaultctl restore --vault ~/vault --name <uuid>.enc --dest /tmp/out`)
}

func initConfig() {
	viper.SetConfigName("vaultctl")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home + "/.config/vaultctl")
	}
	viper.SetEnvPrefix("VAULTCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Missing config files are fine; flags and env may carry everything
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
}

// newLogger builds the CLI logger from the configured level.
func newLogger() *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		level = logrus.WarnLevel
	}
	log.SetLevel(level)
	return log
}

// openVault resolves the vault path and key and opens the vault.
func openVault(path, keyHex string) (*vault.Vault, error) {
	if path == "" {
		path = viper.GetString("vault.path")
	}
	if path == "" {
		return nil, fmt.Errorf("no vault path configured (use --vault or VAULTCTL_VAULT_PATH)")
	}
	if keyHex == "" {
		keyHex = viper.GetString("vault.key")
	}
	if keyHex == "" {
		return nil, fmt.Errorf("no vault key configured (use --key or VAULTCTL_VAULT_KEY)")
	}

	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("vault key is not valid hex: %w", err)
	}
	defer crypto.Zeroize(key)

	return vault.Open(path, key, vault.WithLogger(newLogger()))
}

func keygenCommand(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	key, err := crypto.SecureRandomBytes(constants.KeySize)
	if err != nil {
		return err
	}
	defer crypto.Zeroize(key)

	fmt.Println(hex.EncodeToString(key))
	return nil
}

func storeCommand(args []string) error {
	fs := flag.NewFlagSet("store", flag.ExitOnError)
	vaultPath := fs.String("vault", "", "Vault directory")
	keyHex := fs.String("key", "", "Vault key (64 hex chars)")
	file := fs.String("file", "", "File to store")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("store requires --file")
	}

	v, err := openVault(*vaultPath, *keyHex)
	if err != nil {
		return err
	}
	name, err := v.StoreFile(*file)
	if err != nil {
		return err
	}
	fmt.Println(name)
	return nil
}

func restoreCommand(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	vaultPath := fs.String("vault", "", "Vault directory")
	keyHex := fs.String("key", "", "Vault key (64 hex chars)")
	name := fs.String("name", "", "Stored container name (<uuid>.enc)")
	dest := fs.String("dest", ".", "Destination directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("restore requires --name")
	}

	v, err := openVault(*vaultPath, *keyHex)
	if err != nil {
		return err
	}
	path, err := v.RestoreFile(*name, *dest)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func loadCommand(args []string) error {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	vaultPath := fs.String("vault", "", "Vault directory")
	keyHex := fs.String("key", "", "Vault key (64 hex chars)")
	name := fs.String("name", "", "Stored container name (<uuid>.enc)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("load requires --name")
	}

	v, err := openVault(*vaultPath, *keyHex)
	if err != nil {
		return err
	}
	if _, err := v.RestoreStream(*name, os.Stdout); err != nil {
		return err
	}
	return nil
}

func lsCommand(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	vaultPath := fs.String("vault", "", "Vault directory")
	keyHex := fs.String("key", "", "Vault key (64 hex chars)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v, err := openVault(*vaultPath, *keyHex)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(v.Root())
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), constants.StoredNameSuffix) {
			continue
		}
		fmt.Println(e.Name())
	}
	return nil
}

func nukeCommand(args []string) error {
	fs := flag.NewFlagSet("nuke", flag.ExitOnError)
	vaultPath := fs.String("vault", "", "Vault directory")
	keyHex := fs.String("key", "", "Vault key (64 hex chars)")
	yes := fs.Bool("yes", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("nuke destroys the whole vault; re-run with --yes to confirm")
	}

	v, err := openVault(*vaultPath, *keyHex)
	if err != nil {
		return err
	}
	return v.Nuke()
}
