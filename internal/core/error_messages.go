package core

// error_messages.go maps technical errors to user-friendly messages with
// codes for support reference.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large           Patterns: "file too large"
//	FILE002 - Unsupported format       Patterns: "unsupported file format"
//	FILE003 - Unreadable file          Patterns: "unreadable", "corrupt"
//	FILE004 - No file                  Patterns: "no file provided"
//	FILE005 - Empty sheet              Patterns: "sheet is empty"
//	FILE006 - Missing sheet            Patterns: "sheet not found", "no sheets"
//
// # Validation Errors (VAL001-VAL099)
//
// Row messages are reported per row; these codes exist so a row message can
// be looked up the same way as a file error.
//
//	VAL001 - Missing required fields   Patterns: "missing required fields"
//	VAL002 - Invalid price or discount Patterns: "invalid price or discount"
//	VAL003 - Duplicate row             Patterns: "duplicate entry"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - Invalid request           Patterns: "invalid search query", "invalid request"
//	UPL002 - System busy               Patterns: "too many uploads"
//	UPL003 - Unknown upload            Patterns: "upload not found"
//	UPL004 - Request cancelled         Patterns: "context canceled"
//	UPL005 - Request timeout           Patterns: "context deadline exceeded"
//
// # Warehouse Errors (WH001-WH099)
//
//	WH001 - Warehouse not found        Patterns: "warehouse not found"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests        Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the technical error.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{"file too large", UserMessage{"File exceeds the maximum upload size", "Split the price list or remove unused sheets", "FILE001"}},
	{"unsupported file format", UserMessage{"This file type is not supported", "Upload an .xlsx or .csv file", "FILE002"}},
	{"unreadable", UserMessage{"The file could not be read", "Open the file in Excel and save it again as .xlsx", "FILE003"}},
	{"corrupt", UserMessage{"The file could not be read", "Open the file in Excel and save it again as .xlsx", "FILE003"}},
	{"no file provided", UserMessage{"No file was selected", "Please select a price list to upload", "FILE004"}},
	{"sheet is empty", UserMessage{"The selected sheet is empty", "Choose a sheet with a header row and data", "FILE005"}},
	{"sheet not found", UserMessage{"The requested sheet does not exist", "Check the sheet name and try again", "FILE006"}},
	{"no sheets", UserMessage{"The workbook has no sheets", "Add a sheet with a header row and data", "FILE006"}},

	// Row validation
	{"missing required fields", UserMessage{"Some rows are missing required fields", "Fill in Item Code, Item Name, Price and Discount", "VAL001"}},
	{"invalid price or discount", UserMessage{"Some rows have an invalid price or discount", "Use plain numbers for Price and Discount", "VAL002"}},
	{"duplicate entry", UserMessage{"Some rows repeat an earlier item", "Remove duplicate rows from the file", "VAL003"}},

	// Upload process
	{"invalid search query", UserMessage{"The request was not valid", "Check the request parameters", "UPL001"}},
	{"invalid request", UserMessage{"The request was not valid", "Check the request parameters", "UPL001"}},
	{"too many uploads", UserMessage{"System is busy processing another upload", "Please wait a moment and try again", "UPL002"}},
	{"upload not found", UserMessage{"Upload not found", "The upload history may have been trimmed", "UPL003"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "UPL004"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Try a smaller file or check your connection", "UPL005"}},

	{"warehouse not found", UserMessage{"Warehouse not found", "Upload a price list for this warehouse first", "WH001"}},

	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
