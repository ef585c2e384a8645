package ui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressModel_RoundUpdates(t *testing.T) {
	m := NewProgressModel("O")

	var model tea.Model = m
	model, _ = model.Update(RoundMsg{Round: 1, Samples: 3, Settled: 10, Pending: 2})
	model, _ = model.Update(RoundMsg{Round: 2, Samples: 4, Settled: 1, Pending: 1})

	pm := model.(ProgressModel)
	view := pm.View()
	assert.Contains(t, view, "Comparing O")
	assert.Contains(t, view, "round 2")
	assert.Contains(t, view, "11 settled")
	assert.Contains(t, view, "1 pending")
}

func TestProgressModel_Done(t *testing.T) {
	m := NewProgressModel("Osize")

	var model tea.Model = m
	model, _ = model.Update(RoundMsg{Round: 3, Settled: 5, Added: 1, Removed: 2, Pending: 0})
	model, cmd := model.Update(DoneMsg{})
	require.NotNil(t, cmd)

	pm := model.(ProgressModel)
	assert.NoError(t, pm.Err())
	view := pm.View()
	assert.Contains(t, view, "done after 3 round(s)")
	assert.Contains(t, view, "1 added")
}

func TestProgressModel_Interrupt(t *testing.T) {
	m := NewProgressModel("O")

	var model tea.Model = m
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)

	pm := model.(ProgressModel)
	assert.True(t, pm.Aborted())
	assert.Contains(t, pm.View(), "interrupted")
}

func TestProgressModel_Failure(t *testing.T) {
	m := NewProgressModel("O")

	var model tea.Model = m
	model, _ = model.Update(DoneMsg{Err: fmt.Errorf("benchmark binary missing")})

	pm := model.(ProgressModel)
	require.Error(t, pm.Err())
	assert.Contains(t, pm.View(), "failed")
}
