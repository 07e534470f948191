// Claimer — батч-бот claim-and-transfer.
//
// Для каждого аккаунта из списка: проверяет eligibility, делает
// claim аллокации и переводит токены получателю, повторяя упавшие
// задачи до успеха.
//
// Использование:
//
//	claimer [--config PATH] <command>
//
// Команды:
//
//	run    Запустить батч до полного успеха
//	check  Проверить eligibility без транзакций
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Fragment-Software/scroll-bye-bye/internal/config"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "claimer",
		Short:         "Claimer — bulk claim-and-transfer bot",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to config file")

	configFn := func() (*config.Config, error) { return config.Load(configPath) }

	rootCmd.AddCommand(
		newRunCmd(configFn),
		newCheckCmd(configFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
