package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-expediente-dashboard/internal/model"
)

func TestParseEngineTime(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	t.Run("parses engine-local timestamps in the configured zone", func(t *testing.T) {
		got := parseEngineTime("2026-08-29 14:30:00", loc)
		require.Equal(t, time.Date(2026, 8, 29, 14, 30, 0, 0, loc), got)
	})

	t.Run("parses RFC 3339", func(t *testing.T) {
		got := parseEngineTime("2026-08-29T14:30:00-03:00", loc)
		require.True(t, got.Equal(time.Date(2026, 8, 29, 14, 30, 0, 0, loc)))
	})

	t.Run("treats empty and zero dates as absent", func(t *testing.T) {
		require.True(t, parseEngineTime("", loc).IsZero())
		require.True(t, parseEngineTime("0000-00-00 00:00:00", loc).IsZero())
		require.True(t, parseEngineTime("not a date", loc).IsZero())
	})
}

func TestNormalizeCase(t *testing.T) {
	t.Parallel()

	t.Run("carries finish date as a pointer only when present", func(t *testing.T) {
		withFinish := normalizeCase(rawCase{UID: "a", FinishDate: "2026-08-29 10:00:00"}, time.UTC)
		require.NotNil(t, withFinish.FinishedAt)

		withoutFinish := normalizeCase(rawCase{UID: "b"}, time.UTC)
		require.Nil(t, withoutFinish.FinishedAt)
	})

	t.Run("uppercases unknown statuses instead of dropping them", func(t *testing.T) {
		got := normalizeCase(rawCase{UID: "a", Status: "unassigned"}, time.UTC)
		require.Equal(t, model.CaseStatus("UNASSIGNED"), got.Status)
	})

	t.Run("defaults thread status to open", func(t *testing.T) {
		require.Equal(t, model.ThreadOpen, normalizeCase(rawCase{}, time.UTC).ThreadStatus)
		require.Equal(t, model.ThreadClosed, normalizeCase(rawCase{ThreadStatus: "closed"}, time.UTC).ThreadStatus)
	})

	t.Run("joins creator and assignee names", func(t *testing.T) {
		got := normalizeCase(rawCase{
			UserFirstName:    "Juan",
			UserLastName:     "Pérez",
			CreatorFirstName: "Ana",
			CreatorLastName:  "",
		}, time.UTC)
		require.Equal(t, "Juan Pérez", got.AssignedUserName)
		require.Equal(t, "Ana", got.CreatedByName)
	})
}

func TestFlexStringUnmarshal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"number", `123`, "123"},
		{"string", `"123"`, "123"},
		{"null", `null`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f flexString
			require.NoError(t, f.UnmarshalJSON([]byte(tc.in)))
			require.Equal(t, tc.want, string(f))
		})
	}
}
