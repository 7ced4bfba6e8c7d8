package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sandeepkv93/petd/internal/model"
)

func encodeState(state model.AppState) ([]byte, error) {
	return json.Marshal(state)
}

// decodeState parses a persisted record. Anything unparseable or out of range is ErrCorrupt;
// catalog membership of completed ids is checked by the caller that owns the catalog.
func decodeState(raw []byte) (model.AppState, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return model.AppState{}, fmt.Errorf("%w: empty payload", ErrCorrupt)
	}
	state := model.DefaultAppState()
	if err := json.Unmarshal(raw, &state); err != nil {
		return model.AppState{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if state.CompletedTaskIDs == nil {
		state.CompletedTaskIDs = []string{}
	}
	if state.ActivityHistory == nil {
		state.ActivityHistory = []model.ActivityEntry{}
	}
	if err := state.Validate(nil); err != nil {
		return model.AppState{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return state, nil
}
