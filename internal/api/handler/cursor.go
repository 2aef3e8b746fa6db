package handler

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/cuongbtq/sitejobs/internal/store"
)

func DecodeUpdateCursor(cursorStr string) (*store.Cursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, err
	}

	decodedParts := strings.SplitN(string(decoded), "|", 2)
	if len(decodedParts) != 2 || decodedParts[1] == "" {
		return nil, fmt.Errorf("invalid cursor format")
	}

	var timestamp int64
	_, err = fmt.Sscanf(decodedParts[0], "%d", &timestamp)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp in cursor: %w", err)
	}

	return &store.Cursor{
		Timestamp: time.Unix(0, timestamp).UTC(),
		ID:        decodedParts[1],
	}, nil
}

func EncodeUpdateCursor(cursor *store.Cursor) string {
	cs := fmt.Sprintf("%d|%s", cursor.Timestamp.UnixNano(), cursor.ID)
	return base64.StdEncoding.EncodeToString([]byte(cs))
}
