package rank

import (
	"strings"
	"testing"

	"cmdpad/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"exact", "git", "git", 100},
		{"substring", "git", "git status --short", 100},
		{"substring either side", "git status --short", "status", 100},
		{"disjoint", "abc", "xyz", 0},
		{"empty query", "", "git", 0},
		{"empty target", "git", "", 0},
		{"transposed letters", "dokcer", "docker", 100 * (1 - 2.0/12.0)},
		{"prefix window", "ab", "ac", 100 * (1 - 1.0/3.0)},
		{"multibyte runes", "ö", "xöx", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PartialRatio(tt.a, tt.b), 0.01)
		})
	}
}

func TestPartialRatioSymmetric(t *testing.T) {
	assert.Equal(t, PartialRatio("kubectl", "kubectl get pods"), PartialRatio("kubectl get pods", "kubectl"))
}

func TestPartialRatioEqualLengthBothWays(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"cddab", "cbcdb", 75},
		{"dcaac", "dbcbd", 400.0 / 7.0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, PartialRatio(tt.a, tt.b), 0.01)
			assert.InDelta(t, tt.want, PartialRatio(tt.b, tt.a), 0.01)
		})
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	c := model.Command{Tags: "Docker", Description: "List Containers", Cmd: "docker ps -a"}
	assert.InDelta(t, 100, Score("DOCKER", c), 0.01)
	assert.InDelta(t, 100, Score("containers", c), 0.01)
}

func TestScoreUsesBestField(t *testing.T) {
	c := model.Command{Tags: "zzz", Description: "qqq", Cmd: "terraform plan"}
	assert.InDelta(t, 100, Score("terraform", c), 0.01)
}

func sample() []model.Command {
	return []model.Command{
		{ID: 1, Tags: "git", Description: "status", Cmd: "git status"},
		{ID: 2, Tags: "files", Description: "list", Cmd: "ls -la"},
		{ID: 3, Tags: "git", Description: "history", Cmd: "git log --oneline"},
		{ID: 4, Tags: "git", Description: "push", Cmd: "git push origin HEAD"},
		{ID: 5, Tags: "docker", Description: "containers", Cmd: "docker ps -a"},
	}
}

func TestRankEmptyQuery(t *testing.T) {
	assert.Empty(t, Rank("", sample()))
	assert.Empty(t, Rank("   ", sample()))
}

func TestRankThreshold(t *testing.T) {
	results := Rank("docker", sample())
	require.NotEmpty(t, results)
	assert.Equal(t, int64(5), results[0].Command.ID)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, float64(Threshold))
		assert.GreaterOrEqual(t, Score("docker", r.Command), float64(Threshold))
	}
	for _, c := range sample() {
		found := false
		for _, r := range results {
			found = found || r.Command.ID == c.ID
		}
		if Score("docker", c) < Threshold {
			assert.False(t, found, "command %d below threshold returned", c.ID)
		}
	}
}

func TestRankNoMatch(t *testing.T) {
	assert.Empty(t, Rank("qqqqqqqqqq", []model.Command{{ID: 1, Tags: "abc", Cmd: "xyz"}}))
}

func TestRankAtMostTwo(t *testing.T) {
	var commands []model.Command
	for i := 0; i < 10; i++ {
		commands = append(commands, model.Command{ID: int64(i + 1), Tags: "git", Cmd: "git " + strings.Repeat("x", i)})
	}
	assert.Len(t, Rank("git", commands), MaxResults)
}

func TestRankTiesKeepStorageOrder(t *testing.T) {
	results := Rank("git", sample())
	require.Len(t, results, 2)
	assert.Equal(t, int64(1), results[0].Command.ID)
	assert.Equal(t, int64(3), results[1].Command.ID)
}

func TestRankSortedDescending(t *testing.T) {
	commands := []model.Command{
		{ID: 1, Cmd: "kubectl get nodes"},
		{ID: 2, Cmd: "kubectl get pods"},
	}
	results := Rank("get pods", commands)
	require.Len(t, results, 2)
	assert.Equal(t, int64(2), results[0].Command.ID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestRankDeterministic(t *testing.T) {
	first := Rank("git lo", sample())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Rank("git lo", sample()))
	}
}
