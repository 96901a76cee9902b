package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	authUseCase "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/usecase"
)

// RunListClients lists provisioned clients in text or JSON format.
// Tokens are never included in the output.
func RunListClients(
	ctx context.Context,
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
	io IOTuple,
	format string,
) error {
	clients, err := clientUseCase.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}

	logger.Info("listing clients", slog.Int("count", len(clients)))

	if format == "json" {
		outputClientListJSON(clients, io.Writer)
	} else {
		outputClientListText(clients, io.Writer)
	}

	return nil
}

// clientListEntry is the JSON shape of a listed client, without the token.
type clientListEntry struct {
	Role       string    `json:"role"`
	ProposalNo int64     `json:"proposal_no,omitempty"`
	Stream     string    `json:"stream,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// outputClientListText outputs the result in human-readable text format.
func outputClientListText(clients []*authDomain.Client, writer io.Writer) {
	if len(clients) == 0 {
		_, _ = fmt.Fprintln(writer, "No clients provisioned.")
		return
	}

	for _, client := range clients {
		if client.Role == authDomain.RoleAdmin {
			_, _ = fmt.Fprintf(writer, "%s  admin\n", client.CreatedAt.Format(time.RFC3339))
			continue
		}
		_, _ = fmt.Fprintf(writer, "%s  regular  proposal=%d  stream=%q\n",
			client.CreatedAt.Format(time.RFC3339), client.ProposalNo, client.Stream)
	}
}

// outputClientListJSON outputs the result in JSON format for machine consumption.
func outputClientListJSON(clients []*authDomain.Client, writer io.Writer) {
	entries := make([]clientListEntry, 0, len(clients))
	for _, client := range clients {
		entries = append(entries, clientListEntry{
			Role:       string(client.Role),
			ProposalNo: client.ProposalNo,
			Stream:     client.Stream,
			CreatedAt:  client.CreatedAt,
		})
	}

	jsonBytes, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
