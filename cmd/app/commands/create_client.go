package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	authUseCase "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/usecase"
)

// RunCreateClient provisions a regular client bound to a proposal and stream.
// Equivalent to the POST /api/v1/clients endpoint, for operators working
// directly on the host. Outputs the plain token in text or JSON format.
//
// The token is printed exactly once and is never retrievable again.
func RunCreateClient(
	ctx context.Context,
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
	io IOTuple,
	proposalNo int64,
	stream string,
	format string,
) error {
	logger.Info("creating new client",
		slog.Int64("proposal_no", proposalNo),
		slog.String("stream", stream))

	input := &authDomain.CreateClientInput{
		ProposalNo: proposalNo,
		Stream:     stream,
	}

	output, err := clientUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	if format == "json" {
		outputClientJSON(output, io.Writer)
	} else {
		outputClientText(output, io.Writer)
	}

	logger.Info("client created successfully",
		slog.Int64("proposal_no", proposalNo),
		slog.String("stream", stream))

	return nil
}

// outputClientText outputs the result in human-readable text format.
func outputClientText(output *authDomain.CreateClientOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nClient created successfully!")
	_, _ = fmt.Fprintf(writer, "Proposal: %d\n", output.Client.ProposalNo)
	_, _ = fmt.Fprintf(writer, "Stream: %s\n", output.Client.Stream)
	_, _ = fmt.Fprintf(writer, "Token: %s\n", output.Token)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The token is shown only once. Store it securely.")
}

// outputClientJSON outputs the result in JSON format for machine consumption.
func outputClientJSON(output *authDomain.CreateClientOutput, writer io.Writer) {
	result := map[string]string{
		"token":       output.Token,
		"proposal_no": strconv.FormatInt(output.Client.ProposalNo, 10),
		"stream":      output.Client.Stream,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
