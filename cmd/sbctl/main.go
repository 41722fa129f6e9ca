// Command sbctl submits problem reports and membership registrations from the
// terminal, keeping offline registrations in a local cache.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"studentz/pkg/client"
	"studentz/pkg/submission"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	apiBase   string
	cachePath string
	timeout   time.Duration
	verbose   bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "sbctl",
	Short: "Studentz Bangalore command line client",
	Long: `Submit problem reports and register community members.

Registrations that cannot reach the server are kept in a local cache
with status "Pending Sync" and can be listed or removed later.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", envOr("SBCTL_API", "http://localhost:4000"), "API base URL (or set SBCTL_API)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "Local member cache file (default ~/.studentz/"+submission.CacheFileName+")")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "Request timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	reportSubmitCmd.Flags().StringVar(&reportIn.Name, "name", "", "Your name")
	reportSubmitCmd.Flags().StringVar(&reportIn.College, "college", "", "College")
	reportSubmitCmd.Flags().StringVar(&reportIn.Email, "email", "", "Email (optional)")
	reportSubmitCmd.Flags().StringVar(&reportIn.Category, "category", "Academic", "Academic, Administration, Campus Facilities, Finance/Fees, Wellbeing or Other")
	reportSubmitCmd.Flags().StringVar(&reportIn.Details, "details", "", "Describe the problem")
	reportListCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum records (server default when 0)")
	reportCmd.AddCommand(reportSubmitCmd, reportListCmd)

	memberRegisterCmd.Flags().StringVar(&memberIn.Name, "name", "", "Full name")
	memberRegisterCmd.Flags().StringVar(&memberIn.College, "college", "", "College")
	memberRegisterCmd.Flags().StringVar(&memberIn.Email, "email", "", "Email")
	memberRegisterCmd.Flags().StringVar(&memberIn.WhatsApp, "whatsapp", "", "10-digit WhatsApp number")
	memberRegisterCmd.Flags().StringVar(&photoPath, "photo", "", "Photo file (JPEG, PNG, GIF, BMP or TIFF)")
	memberListCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum records (server default when 0)")
	memberCmd.AddCommand(memberRegisterCmd, memberListCmd, memberCardCmd)

	pendingCmd.AddCommand(pendingListCmd, pendingDeleteCmd)

	photoCompressCmd.Flags().StringVarP(&photoOut, "out", "o", "", "Write the compressed JPEG to this file")
	photoCmd.AddCommand(photoCompressCmd)

	rootCmd.AddCommand(healthCmd, reportCmd, memberCmd, pendingCmd, photoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient() *client.Client {
	c := client.New(apiBase)
	c.Timeout = timeout
	return c
}

func openCache() (*submission.LocalCache, error) {
	path := cachePath
	if path == "" {
		p, err := submission.DefaultCachePath()
		if err != nil {
			return nil, fmt.Errorf("resolve cache path: %w", err)
		}
		path = p
	}
	return submission.NewLocalCache(path), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
