// Package storage persists the workout state snapshot and the bundled file
// store. SQLite is the local default; PostgreSQL serves shared deployments.
// Both keep the state as one JSON document per key and write every key in a
// single transaction.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/claude/gymlog/internal/models"
)

// State keys. They match the key-value layout of the browser app, so a
// snapshot can be inspected with the same names.
const (
	keyPrograms  = "programs"
	keyExercises = "exercises"
	keyHistory   = "history"
	keyUI        = "ui"
)

type keyValue struct {
	key   string
	value []byte
}

// encodeState splits st into its stored keys.
func encodeState(st *models.State) ([]keyValue, error) {
	st = st.Clone()
	st.Normalize()

	fields := []struct {
		key string
		v   any
	}{
		{keyPrograms, st.Programs},
		{keyExercises, st.Exercises},
		{keyHistory, st.History},
		{keyUI, st.UI},
	}
	out := make([]keyValue, 0, len(fields))
	for _, f := range fields {
		b, err := json.Marshal(f.v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.key, err)
		}
		out = append(out, keyValue{key: f.key, value: b})
	}
	return out, nil
}

// decodeState rebuilds a state from stored keys. Missing keys stay empty and
// unknown keys are ignored.
func decodeState(rows map[string][]byte) (*models.State, error) {
	st := models.NewState()
	targets := map[string]any{
		keyPrograms:  &st.Programs,
		keyExercises: &st.Exercises,
		keyHistory:   &st.History,
		keyUI:        &st.UI,
	}
	for key, raw := range rows {
		dst, ok := targets[key]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
	}
	st.Normalize()
	return st, nil
}
