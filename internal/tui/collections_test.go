package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbarbosa/newsdeck/internal/state"
	"github.com/rbarbosa/newsdeck/pkg/models"
)

func keyRune(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var keyEnter = tea.KeyMsg{Type: tea.KeyEnter}

func TestCollectionsLoad(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)
	env.backend.collections = []*models.Collection{
		{ID: "c9", Name: "Tech", Articles: []models.Article{}},
	}

	m := newCollectionsModel(env.client, env.tracker)
	m, cmd := m.activate()
	m = drain(m, cmd)

	require.Len(t, m.collections, 1)
	assert.Equal(t, "Tech", m.collections[0].Name)
	assert.Equal(t, state.StatusSucceeded, env.tracker.Get(state.PageCollections).Status)
}

func TestCollectionsStaleLoadIsDropped(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)

	m := newCollectionsModel(env.client, env.tracker)
	m.loadSeq = 2
	env.tracker.SetStatus(state.PageCollections, state.StatusPending, "")

	m, _ = m.Update(collectionsLoadedMsg{seq: 1, items: []models.Collection{{ID: "c1", Name: "old"}}})

	assert.Nil(t, m.collections)
	assert.Equal(t, state.StatusPending, env.tracker.Get(state.PageCollections).Status)
}

func TestCreateCollectionRequiresName(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)

	m := newCollectionsModel(env.client, env.tracker)
	m.creating = true
	m.nameInput.SetValue("   ")

	m, cmd := m.Update(keyEnter)
	assert.Nil(t, cmd)
	assert.True(t, m.creating)
	assert.False(t, m.createBusy)
}

func TestCreateCollectionReloadsList(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)

	m := newCollectionsModel(env.client, env.tracker)
	m, cmd := m.activate()
	m = drain(m, cmd)
	require.Empty(t, m.collections)

	m.creating = true
	m.nameInput.SetValue("Tech")
	m, cmd = m.Update(keyEnter)
	m = drain(m, cmd)

	assert.False(t, m.creating)
	require.Len(t, m.collections, 1)
	assert.Equal(t, "Tech", m.collections[0].Name)
}

func TestDeleteCollectionKeepsItUntilConfirmed(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)
	env.backend.collections = []*models.Collection{
		{ID: "c1", Name: "Tech", Articles: []models.Article{}},
	}

	m := newCollectionsModel(env.client, env.tracker)
	m, cmd := m.activate()
	m = drain(m, cmd)

	m, _ = m.Update(keyRune("d"))
	require.NotNil(t, m.toDelete)

	// Declining keeps the collection, locally and on the server.
	m, _ = m.Update(keyRune("n"))
	assert.Nil(t, m.toDelete)
	require.Len(t, m.collections, 1)

	// Confirming deletes on the server first, then reloads.
	m, _ = m.Update(keyRune("d"))
	m, cmd = m.Update(keyRune("y"))
	m = drain(m, cmd)

	assert.Empty(t, m.collections)
	env.backend.mu.Lock()
	defer env.backend.mu.Unlock()
	assert.Empty(t, env.backend.collections)
}

func TestRenameCollection(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)
	env.backend.collections = []*models.Collection{
		{ID: "c1", Name: "Tech", Articles: []models.Article{}},
	}

	m := newDetailModel(env.client, env.tracker)
	m, cmd := m.open("c1")
	m = drain(m, cmd)
	require.NotNil(t, m.collection)

	m.renaming = true
	m.nameInput.SetValue("Read later")
	m, cmd = m.Update(keyEnter)
	m = drain(m, cmd)

	assert.False(t, m.renaming)
	assert.Equal(t, "Read later", m.collection.Name)
}

func TestOpenMissingCollectionFails(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)

	m := newDetailModel(env.client, env.tracker)
	m, cmd := m.open("nope")
	m = drain(m, cmd)

	assert.Nil(t, m.collection)
	vs := env.tracker.Get(state.PageCollectionDetail)
	assert.Equal(t, state.StatusFailed, vs.Status)
	assert.Equal(t, "collection not found", vs.Error)
}

func TestPickerCreatesCollectionAndAttaches(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)

	m := newPickerModel(env.client)
	m, cmd := m.open(models.Article{Title: "X", URL: "http://x"})
	m = drain(m, cmd)
	require.Empty(t, m.collections)

	m.naming = true
	m.nameInput.SetValue("Later")
	m, cmd = m.Update(keyEnter)
	m = drain(m, cmd)

	env.backend.mu.Lock()
	defer env.backend.mu.Unlock()
	require.Len(t, env.backend.collections, 1)
	c := env.backend.collections[0]
	assert.Equal(t, "Later", c.Name)
	require.Len(t, c.Articles, 1)
	assert.Equal(t, "X", c.Articles[0].Title)
}

// The full save path: create a collection, save an article into it from
// the picker, open the collection, then remove the article again.
func TestSaveAndRemoveArticleFlow(t *testing.T) {
	env := newTUIEnv(t)
	env.login(t)

	cm := newCollectionsModel(env.client, env.tracker)
	cm, cmd := cm.activate()
	cm = drain(cm, cmd)

	cm.creating = true
	cm.nameInput.SetValue("Tech")
	cm, cmd = cm.Update(keyEnter)
	cm = drain(cm, cmd)
	require.Len(t, cm.collections, 1)
	id := cm.collections[0].ID

	pm := newPickerModel(env.client)
	pm, cmd = pm.open(models.Article{Title: "X", URL: "http://x"})
	pm = drain(pm, cmd)
	require.Len(t, pm.collections, 1)

	pm, cmd = pm.Update(keyEnter)
	_ = drain(pm, cmd)

	dm := newDetailModel(env.client, env.tracker)
	dm, cmd = dm.open(id)
	dm = drain(dm, cmd)
	require.NotNil(t, dm.collection)
	require.Len(t, dm.collection.Articles, 1)
	assert.Equal(t, "X", dm.collection.Articles[0].Title)

	dm, _ = dm.Update(keyRune("x"))
	require.NotNil(t, dm.toRemove)
	dm, cmd = dm.Update(keyRune("y"))
	dm = drain(dm, cmd)

	assert.Empty(t, dm.collection.Articles)
	assert.Empty(t, dm.removingID)
	assert.Contains(t, dm.View(), "No articles in this collection.")
	assert.Equal(t, state.StatusSucceeded, env.tracker.Get(state.PageCollectionDetail).Status)
}
