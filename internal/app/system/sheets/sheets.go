// Package sheets creates Google Spreadsheets on behalf of a signed-in user,
// using the OAuth access token stashed in their session.
package sheets

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	sheetsapi "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"
)

// Creator builds the Sheets service for a per-request access token. It is an
// interface so handlers can be tested without calling Google.
type Creator interface {
	CreateWithValues(ctx context.Context, accessToken, title, sheetName string, values [][]any) (url string, err error)
}

// Client is the production Creator.
type Client struct{}

// NewClient returns a ready Client.
func NewClient() *Client { return &Client{} }

// CreateWithValues creates a new spreadsheet containing a single sheet and
// writes values starting at A1. It returns the spreadsheet's web URL.
func (c *Client) CreateWithValues(ctx context.Context, accessToken, title, sheetName string, values [][]any) (string, error) {
	if accessToken == "" {
		return "", fmt.Errorf("sheets: access token is empty")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := sheetsapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return "", fmt.Errorf("sheets: init service: %w", err)
	}

	ss, err := svc.Spreadsheets.Create(&sheetsapi.Spreadsheet{
		Properties: &sheetsapi.SpreadsheetProperties{Title: title},
		Sheets: []*sheetsapi.Sheet{
			{Properties: &sheetsapi.SheetProperties{Title: sheetName}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("sheets: create spreadsheet: %w", err)
	}

	_, err = svc.Spreadsheets.Values.Update(ss.SpreadsheetId, sheetName+"!A1",
		&sheetsapi.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("sheets: write values: %w", err)
	}

	return ss.SpreadsheetUrl, nil
}
