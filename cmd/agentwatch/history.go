package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/agentwatch/agentwatch/pkg/activity"
	"github.com/agentwatch/agentwatch/pkg/history"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [file|-]",
		Short: "Reconstruct the activity log from a persisted conversation JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistory,
	}
	cmd.Flags().StringP("output", "o", "text", "output format (text, yaml, json)")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	b, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "could not read conversation")
	}

	var conv history.Conversation
	if err := json.Unmarshal(b, &conv); err != nil {
		// also accept a bare message list
		var messages []history.Message
		if err2 := json.Unmarshal(b, &messages); err2 != nil {
			return errors.Wrap(err, "could not decode conversation")
		}
		conv.Messages = messages
	}

	turns, err := history.Activities(conv.Messages)
	if err != nil {
		return errors.Wrap(err, "could not reconstruct activity log")
	}

	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "text":
		activity.FprintTurns(os.Stdout, turns)
		return nil
	case "yaml":
		out, err := yaml.Marshal(turns)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	case "json":
		out, err := json.MarshalIndent(turns, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	return errors.Errorf("unknown output format %q", output)
}
