// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/openblock/blockd/cli/api"
	"github.com/openblock/blockd/frontend/rest"
	"github.com/openblock/blockd/storage"
)

var (
	serviceBinary   string
	serviceCluster  string
	serviceDisabled string
	serviceFrozen   string
)

func init() {
	getCmd.AddCommand(getServiceCmd)
	getServiceCmd.Flags().StringVar(&serviceBinary, "binary", "", "Limit the list to one service binary")
	getServiceCmd.Flags().StringVar(&serviceCluster, "cluster", "", "Limit the list to members of a cluster")
	getServiceCmd.Flags().StringVar(&serviceDisabled, "disabled", "", "Limit the list by disabled state (true|false)")
	getServiceCmd.Flags().StringVar(&serviceFrozen, "frozen", "", "Limit the list by frozen state (true|false)")
}

var getServiceCmd = &cobra.Command{
	Use:     "service [<host>...]",
	Short:   "Get one or more services from blockd",
	Aliases: []string{"services", "svc"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serviceList(args)
	},
}

func serviceList(hosts []string) error {
	var services []*storage.Service

	if len(hosts) == 0 {
		var err error
		if services, err = GetServices(); err != nil {
			return err
		}
	}

	for _, host := range hosts {
		service, err := GetService(host)
		if err != nil {
			return err
		}
		services = append(services, service)
	}

	WriteServices(services)
	return nil
}

func GetServices() ([]*storage.Service, error) {
	query := url.Values{}
	for key, value := range map[string]string{
		"binary":   serviceBinary,
		"cluster":  serviceCluster,
		"disabled": serviceDisabled,
		"frozen":   serviceFrozen,
	} {
		if value != "" {
			query.Set(key, value)
		}
	}

	u := BaseURL() + "/service"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var listServicesResponse rest.ListServicesResponse
	if err := invoke(http.MethodGet, u, nil, http.StatusOK, &listServicesResponse); err != nil {
		return nil, fmt.Errorf("could not get services; %v", err)
	}
	return listServicesResponse.Services, nil
}

func GetService(host string) (*storage.Service, error) {
	var getServiceResponse rest.GetServiceResponse
	err := invoke(http.MethodGet, BaseURL()+"/service/"+url.PathEscape(host), nil, http.StatusOK, &getServiceResponse)
	if err != nil {
		return nil, fmt.Errorf("could not get service %s; %v", host, err)
	}
	return getServiceResponse.Service, nil
}

func WriteServices(services []*storage.Service) {
	switch OutputFormat {
	case FormatJSON:
		WriteJSON(api.MultipleServiceResponse{Items: services})
	case FormatYAML:
		WriteYAML(api.MultipleServiceResponse{Items: services})
	case FormatName:
		for _, service := range services {
			fmt.Println(service.Host)
		}
	default:
		writeServiceTable(services)
	}
}

func writeServiceTable(services []*storage.Service) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"Host", "Binary", "Cluster", "Active Backend", "Replication", "Disabled", "Frozen", "Updated",
	})

	for _, service := range services {
		disabled := strconv.FormatBool(service.Disabled)
		if service.DisabledReason != "" {
			disabled += " (" + service.DisabledReason + ")"
		}
		table.Append([]string{
			service.Host,
			service.Binary,
			service.ClusterName,
			service.ActiveBackendID,
			string(service.ReplicationStatus),
			disabled,
			strconv.FormatBool(service.Frozen),
			humanize.Time(service.UpdatedAt),
		})
	}

	table.Render()
}
