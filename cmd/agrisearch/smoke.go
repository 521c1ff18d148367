package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/agri365/agri365/internal/core"
	"github.com/agri365/agri365/internal/core/model"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Check a running server's search endpoint",
	Long: `Post a known misspelling to /api/search and check that the expected entry
comes back first, then check that an empty query is rejected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL, _ := cmd.Flags().GetString("url")
		query, _ := cmd.Flags().GetString("query")
		want, _ := cmd.Flags().GetString("expect")
		client := &http.Client{Timeout: 10 * time.Second}

		status, body, err := postSearch(client, baseURL, query)
		if err != nil {
			return err
		}
		if err := checkSearch(status, body, want); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PASSED: %q ranks %q first\n", query, want)

		status, _, err = postSearch(client, baseURL, "")
		if err != nil {
			return err
		}
		if status != http.StatusBadRequest {
			return errors.Newf("empty query: expected status 400, got %d", status)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "PASSED: empty query rejected")
		return nil
	},
}

func init() {
	smokeCmd.Flags().String("url", "http://localhost:3000", "server base URL")
	smokeCmd.Flags().String("query", "tomoto", "query to send")
	smokeCmd.Flags().String("expect", "Late Blight", "name expected as the top result")
}

func postSearch(client *http.Client, baseURL, query string) (int, []byte, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return 0, nil, err
	}
	resp, err := client.Post(baseURL+"/api/search", "application/json", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, errors.Wrap(err, "post search")
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "read response")
	}
	return resp.StatusCode, body, nil
}

func checkSearch(status int, body []byte, want string) error {
	if status != http.StatusOK {
		return errors.Newf("expected status 200, got %d: %s", status, body)
	}
	var resp struct {
		Success   bool                `json:"success"`
		Data      []model.ScoredEntry `json:"data"`
		Algorithm string              `json:"algorithm"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return errors.Wrap(err, "decode response")
	}
	if !resp.Success || resp.Algorithm != core.Algorithm {
		return errors.Newf("unexpected envelope: success=%v algorithm=%q", resp.Success, resp.Algorithm)
	}
	if len(resp.Data) == 0 {
		return errors.New("no results")
	}
	if resp.Data[0].Name != want {
		return errors.Newf("expected %q first, got %q", want, resp.Data[0].Name)
	}
	return nil
}
