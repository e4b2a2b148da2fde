package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(names map[int32]string, order ...int32) []Record {
	out := make([]Record, 0, len(order))
	for _, pid := range order {
		out = append(out, Record{PID: pid, Name: names[pid], Status: StatusRunning})
	}
	return out
}

func pidsOf(rs []Record) []int32 {
	out := make([]int32, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.PID)
	}
	return out
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		pidList bool
		empty   bool
		wantErr bool
	}{
		{"empty", "", false, true, false},
		{"whitespace", "   ", false, true, false},
		{"name", "chrome", false, false, false},
		{"single pid", "42", false, false, false},
		{"pid list", "10,30", true, false, false},
		{"pid list with spaces", " 10 , 30 ", true, false, false},
		{"trailing comma", "10,", true, false, false},
		{"letters in list", "10,abc", false, false, true},
		{"negative in list", "10,-3", false, false, true},
		{"overflow in list", "10,99999999999", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuery(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPIDList)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pidList, q.IsPIDList())
			assert.Equal(t, tt.empty, q.IsEmpty())
		})
	}
}

func TestFilterByPIDList(t *testing.T) {
	names := map[int32]string{10: "a", 20: "b", 30: "c"}
	rs := records(names, 30, 20, 10)

	q, err := ParseQuery("10,30")
	require.NoError(t, err)

	got := Filter(rs, q)
	assert.Equal(t, []int32{30, 10}, pidsOf(got), "keeps original relative order")
}

func TestFilterPIDListDisablesNameMatching(t *testing.T) {
	rs := []Record{{PID: 1, Name: "10,30"}, {PID: 10, Name: "x"}}

	q, err := ParseQuery("10,30")
	require.NoError(t, err)

	assert.Equal(t, []int32{10}, pidsOf(Filter(rs, q)))
}

func TestFilterByName(t *testing.T) {
	names := map[int32]string{1: "chrome.exe", 2: "Chrome Helper", 3: "explorer.exe"}
	rs := records(names, 1, 2, 3)

	q, err := ParseQuery("chrome")
	require.NoError(t, err)

	assert.Equal(t, []int32{1, 2}, pidsOf(Filter(rs, q)))
}

func TestFilterSinglePID(t *testing.T) {
	names := map[int32]string{7: "seven", 77: "init", 8: "proc7"}
	rs := records(names, 7, 77, 8)

	q, err := ParseQuery("7")
	require.NoError(t, err)

	// PID 7 by identifier, PID 8 by name substring; 77 matches neither.
	assert.Equal(t, []int32{7, 8}, pidsOf(Filter(rs, q)))
}

func TestFilterNoMatch(t *testing.T) {
	rs := records(map[int32]string{1: "bash"}, 1)

	q, err := ParseQuery("no-such-process")
	require.NoError(t, err)

	got := Filter(rs, q)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterEmptyQueryMatchesAll(t *testing.T) {
	rs := records(map[int32]string{1: "a", 2: "b"}, 1, 2)
	assert.Len(t, Filter(rs, Query{}), 2)
}
