// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/openblock/blockd/cli/api"
	"github.com/openblock/blockd/frontend/rest"
	"github.com/openblock/blockd/storage"
)

var (
	messageResource string
	messageEvent    string
)

func init() {
	getCmd.AddCommand(getMessageCmd)
	getMessageCmd.Flags().StringVar(&messageResource, "resource", "", "Limit the list to one resource")
	getMessageCmd.Flags().StringVar(&messageEvent, "event", "", "Limit the list to one event ID")
}

var getMessageCmd = &cobra.Command{
	Use:     "message [<id>...]",
	Short:   "Get user messages about failed operations",
	Aliases: []string{"m", "messages"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var messages []*storage.Message

		if len(args) == 0 {
			var err error
			if messages, err = GetMessages(); err != nil {
				return err
			}
		}
		for _, id := range args {
			var response rest.GetMessageResponse
			if err := invoke(http.MethodGet, BaseURL()+"/message/"+id, nil, http.StatusOK, &response); err != nil {
				return fmt.Errorf("could not get message %s; %v", id, err)
			}
			messages = append(messages, response.Message)
		}

		WriteMessages(messages)
		return nil
	},
}

func GetMessages() ([]*storage.Message, error) {
	query := url.Values{}
	if messageResource != "" {
		query.Set("resource", messageResource)
	}
	if messageEvent != "" {
		query.Set("event", messageEvent)
	}

	u := BaseURL() + "/message"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var response rest.ListMessagesResponse
	if err := invoke(http.MethodGet, u, nil, http.StatusOK, &response); err != nil {
		return nil, fmt.Errorf("could not get messages; %v", err)
	}
	return response.Messages, nil
}

func WriteMessages(messages []*storage.Message) {
	switch OutputFormat {
	case FormatJSON:
		WriteJSON(api.MultipleMessageResponse{Items: messages})
	case FormatYAML:
		WriteYAML(api.MultipleMessageResponse{Items: messages})
	case FormatName:
		for _, message := range messages {
			fmt.Println(message.ID)
		}
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Resource", "Event", "Message", "Age"})
		table.SetAutoWrapText(false)
		for _, message := range messages {
			table.Append([]string{
				message.ID,
				message.ResourceUUID,
				message.EventID,
				message.UserMessage(),
				humanize.Time(message.CreatedAt),
			})
		}
		table.Render()
	}
}
