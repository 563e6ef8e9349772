package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mauv0809/sportapp/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(sportsCmd)
	rootCmd.AddCommand(availabilityCmd)
	rootCmd.AddCommand(reserveCmd)
	rootCmd.AddCommand(reservationCmd)
	rootCmd.AddCommand(deleteReservationCmd)
	rootCmd.AddCommand(inviteCmd)
	rootCmd.AddCommand(respondCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(metricsCmd)

	availabilityCmd.Flags().String("month", "", "Month as YYYY-MM (default: current month)")

	reserveCmd.Flags().String("id", "", "Existing reservation id to update")
	reserveCmd.Flags().String("playground", "", "Playground id")
	reserveCmd.Flags().String("sport", "", "Sport id")
	reserveCmd.Flags().String("center", "", "Sport center id")
	reserveCmd.Flags().String("start", "", "Start as YYYY-MM-DDTHH:MM:SS")
	reserveCmd.Flags().String("end", "", "End as YYYY-MM-DDTHH:MM:SS")
	reserveCmd.Flags().StringSlice("equipment", nil, "Equipment as id=quantity, repeatable")
	for _, f := range []string{"playground", "sport", "center", "start", "end"} {
		reserveCmd.MarkFlagRequired(f)
	}

	inviteCmd.Flags().String("to", "", "Receiver user id")
	inviteCmd.Flags().String("reservation", "", "Reservation id")
	inviteCmd.Flags().String("message", "", "Invitation text")
	inviteCmd.MarkFlagRequired("to")
	inviteCmd.MarkFlagRequired("reservation")

	respondCmd.Flags().String("from", string(model.StatusPending), "Current status")
	respondCmd.Flags().String("status", "", "New status: ACCEPTED or REJECTED")
	respondCmd.Flags().String("reservation", "", "Reservation id")
	respondCmd.MarkFlagRequired("status")
	respondCmd.MarkFlagRequired("reservation")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var sportsCmd = &cobra.Command{
	Use:   "sports",
	Short: "List the sports",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/sports", nil)
	},
}

var availabilityCmd = &cobra.Command{
	Use:   "availability <sport-id>",
	Short: "Show the free playgrounds per reserved slot of a month",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/sports/" + url.PathEscape(args[0]) + "/availability"
		if month, _ := cmd.Flags().GetString("month"); month != "" {
			endpoint += "?month=" + url.QueryEscape(month)
		}
		return performRequest(http.MethodGet, endpoint, nil)
	},
}

var reserveCmd = &cobra.Command{
	Use:   "reserve",
	Short: "Create or update a reservation",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		get := func(name string) string {
			v, _ := flags.GetString(name)
			return v
		}
		start, err := model.ParseDateTime(get("start"))
		if err != nil {
			return err
		}
		end, err := model.ParseDateTime(get("end"))
		if err != nil {
			return err
		}
		pairs, _ := flags.GetStringSlice("equipment")
		selected, err := parseEquipment(pairs)
		if err != nil {
			return err
		}
		req := model.NewReservation{
			PlaygroundID:       get("playground"),
			SportID:            get("sport"),
			SportCenterID:      get("center"),
			StartTime:          start,
			EndTime:            end,
			SelectedEquipments: selected,
		}
		if id := get("id"); id != "" {
			return performRequest(http.MethodPut, "/reservations/"+url.PathEscape(id), req)
		}
		return performRequest(http.MethodPost, "/reservations", req)
	},
}

var reservationCmd = &cobra.Command{
	Use:   "reservation <id>",
	Short: "Show a reservation with its playground and equipment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/reservations/"+url.PathEscape(args[0]), nil)
	},
}

var deleteReservationCmd = &cobra.Command{
	Use:   "delete-reservation <id>",
	Short: "Delete a reservation and cancel its invitations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/reservations/"+url.PathEscape(args[0]), nil)
	},
}

var inviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Invite a user to a reservation",
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		reservation, _ := cmd.Flags().GetString("reservation")
		message, _ := cmd.Flags().GetString("message")
		return performRequest(http.MethodPost, "/invitations", map[string]string{
			"receiver_uid":   to,
			"reservation_id": reservation,
			"description":    message,
		})
	},
}

var respondCmd = &cobra.Command{
	Use:   "respond <notification-id>",
	Short: "Accept or reject an invitation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		status, _ := cmd.Flags().GetString("status")
		reservation, _ := cmd.Flags().GetString("reservation")
		return performRequest(http.MethodPut, "/invitations/"+url.PathEscape(args[0])+"/status", map[string]string{
			"old_status":     strings.ToUpper(from),
			"new_status":     strings.ToUpper(status),
			"reservation_id": reservation,
		})
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications <user-id>",
	Short: "List the user's pending and answered invitations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/users/"+url.PathEscape(args[0])+"/notifications", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

// parseEquipment reads id=quantity pairs.
func parseEquipment(pairs []string) ([]model.SelectedEquipment, error) {
	selected := make([]model.SelectedEquipment, 0, len(pairs))
	for _, pair := range pairs {
		id, qty, ok := strings.Cut(pair, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid equipment %q, expected id=quantity", pair)
		}
		n, err := strconv.Atoi(qty)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in %q: %w", pair, err)
		}
		selected = append(selected, model.SelectedEquipment{EquipmentID: id, SelectedQuantity: n})
	}
	return selected, nil
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

func performRequest(method, endpoint string, body any) error {
	target := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, target)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
