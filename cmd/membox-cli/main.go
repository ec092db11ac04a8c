package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

var serverAddr string

var rootCmd = &cobra.Command{
	Use:   "membox-cli",
	Short: "Command-line client for a membox server",
	Long: `membox-cli talks to a running membox server over its HTTP API.

The server address is taken from --addr or the MEMBOX_ADDR environment
variable (default http://127.0.0.1:8080).`,
	SilenceUsage: true,
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Retrieve the value stored under a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a key-value pair, overwriting any previous value",
	Args:  cobra.ExactArgs(2),
	RunE:  runSet,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a key from the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show server operation metrics and storage accounting",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	defaultAddr := os.Getenv("MEMBOX_ADDR")
	if defaultAddr == "" {
		defaultAddr = "http://127.0.0.1:8080"
	}
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", defaultAddr, "membox server base URL")
	rootCmd.AddCommand(getCmd, setCmd, deleteCmd, statsCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	resp, err := http.Get(serverAddr + "/get?key=" + url.QueryEscape(key))
	if err != nil {
		return fmt.Errorf("get failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		fmt.Println(string(body))
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("key '%s' not found", key)
	default:
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	payload, err := json.Marshal(map[string]string{"key": key, "value": value})
	if err != nil {
		return err
	}

	resp, err := http.Post(serverAddr+"/set", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("set failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		fmt.Printf("Set '%s' = '%s'\n", key, value)
		return nil
	case http.StatusInsufficientStorage:
		return fmt.Errorf("server byte budget exhausted")
	default:
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	key := args[0]

	payload, err := json.Marshal(map[string]string{"key": key})
	if err != nil {
		return err
	}

	resp, err := http.Post(serverAddr+"/delete", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		fmt.Printf("Deleted '%s'\n", key)
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("key '%s' not found", key)
	default:
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	resp, err := http.Get(serverAddr + "/stats")
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var pretty bytes.Buffer
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		return fmt.Errorf("failed to parse stats: %w", err)
	}
	fmt.Println(pretty.String())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
