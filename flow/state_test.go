package flow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/leadflow/types"
)

func filledState(t *testing.T) WizardState {
	t.Helper()
	s := NewWizardState("s1", 1, true)
	var err error
	for pointer, value := range map[string]string{
		types.PointerBusinessName: "Atlas Fitness",
		types.PointerEmail:        "founder@atlas.fit",
		types.PointerGoals:        "increase leads",
	} {
		s, err = s.SetField(pointer, value)
		require.NoError(t, err)
	}
	return s
}

func TestWizardStateBeginInsightsRequiresFields(t *testing.T) {
	s := NewWizardState("s1", 1, true)
	s, err := s.SetField(types.PointerBusinessName, "Atlas Fitness")
	require.NoError(t, err)
	s, err = s.SetField(types.PointerGoals, "   ")
	require.NoError(t, err)

	next, err := s.BeginInsights()
	require.ErrorIs(t, err, ErrMissingFields)
	assert.Contains(t, err.Error(), types.PointerEmail)
	assert.Contains(t, err.Error(), types.PointerGoals)
	assert.NotContains(t, err.Error(), types.PointerBusinessName)
	assert.False(t, next.Loading)
	assert.Equal(t, types.StepCollecting, next.Step)
}

func TestWizardStateTransitions(t *testing.T) {
	s := filledState(t)

	loading, err := s.BeginInsights()
	require.NoError(t, err)
	assert.True(t, loading.Loading)
	assert.False(t, s.Loading, "receiver must not change")

	_, err = loading.BeginInsights()
	require.ErrorIs(t, err, ErrBusy)
	_, err = loading.SetField(types.PointerGoals, "other")
	require.ErrorIs(t, err, ErrBusy)

	preview, err := loading.CompleteInsights(loading.Ticket(), types.InsightList{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, types.StepPreviewing, preview.Step)
	assert.False(t, preview.Loading)
	assert.Equal(t, types.InsightList{"a", "b"}, preview.Insights)

	_, err = preview.SetField(types.PointerGoals, "other")
	require.ErrorIs(t, err, ErrWrongStep)

	_, err = preview.BeginDispatch("Someday", types.DefaultSlots)
	require.ErrorIs(t, err, ErrInvalidSlot)

	sending, err := preview.BeginDispatch(types.DefaultSlots[1], types.DefaultSlots)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultSlots[1], sending.Slot)
	assert.True(t, sending.Loading)

	confirmed, err := sending.CompleteDispatch(sending.Ticket(), nil)
	require.NoError(t, err)
	assert.Equal(t, types.StepConfirmed, confirmed.Step)
	assert.False(t, confirmed.Loading)
}

func TestWizardStateRejectsStaleTicket(t *testing.T) {
	loading, err := filledState(t).BeginInsights()
	require.NoError(t, err)

	stale := Ticket{Session: "s0", Generation: 0}
	next, err := loading.CompleteInsights(stale, types.InsightList{"a"})
	require.ErrorIs(t, err, ErrStale)
	assert.Equal(t, loading, next)

	fresh := NewWizardState("s2", 2, true)
	_, err = fresh.CompleteInsights(loading.Ticket(), types.InsightList{"a"})
	require.ErrorIs(t, err, ErrStale)
}

func TestWizardStateEmptyInsightsStayInCollecting(t *testing.T) {
	loading, err := filledState(t).BeginInsights()
	require.NoError(t, err)

	next, err := loading.CompleteInsights(loading.Ticket(), nil)
	require.NoError(t, err)
	assert.Equal(t, types.StepCollecting, next.Step)
	assert.False(t, next.Loading)
	assert.ErrorIs(t, next.Err, ErrNoInsights)
}

func TestWizardStateDispatchFailureKeepsPreview(t *testing.T) {
	loading, _ := filledState(t).BeginInsights()
	preview, _ := loading.CompleteInsights(loading.Ticket(), types.InsightList{"a"})
	sending, err := preview.BeginDispatch(types.DefaultSlots[0], types.DefaultSlots)
	require.NoError(t, err)

	failed, err := sending.CompleteDispatch(sending.Ticket(), errors.New("boom"))
	require.NoError(t, err)
	assert.Equal(t, types.StepPreviewing, failed.Step)
	assert.False(t, failed.Loading)
	assert.Equal(t, "boom", failed.ErrorMessage())

	retry, err := failed.BeginDispatch(types.DefaultSlots[0], types.DefaultSlots)
	require.NoError(t, err)
	assert.Nil(t, retry.Err)
	assert.True(t, retry.Loading)
	assert.Equal(t, types.DefaultSlots[0], retry.Slot)

	_, err = retry.BeginDispatch(types.DefaultSlots[0], types.DefaultSlots)
	require.ErrorIs(t, err, ErrBusy)
}

func TestWizardStateRejectsInvalidText(t *testing.T) {
	s := NewWizardState("s1", 1, true)
	next, err := s.SetField(types.PointerBusinessName, "\xffAtlas")
	require.ErrorIs(t, err, ErrInvalidText)
	assert.Equal(t, s, next)
}

func TestWizardStateClosedRejectsEvents(t *testing.T) {
	s := NewWizardState("s1", 1, false)
	_, err := s.SetField(types.PointerEmail, "a@b.co")
	require.ErrorIs(t, err, ErrClosed)
	_, err = s.BeginInsights()
	require.ErrorIs(t, err, ErrClosed)
}

func TestWizardStatePrefill(t *testing.T) {
	s, err := NewWizardState("s1", 1, true).Prefill(types.LeadForm{Email: "founder@atlas.fit"})
	require.NoError(t, err)
	assert.Equal(t, types.LeadForm{Email: "founder@atlas.fit"}, s.Form)
}

func TestContactStateTransitions(t *testing.T) {
	s := NewContactState("c1", 1)
	_, err := s.BeginSend()
	require.ErrorIs(t, err, ErrMissingFields)

	s, _ = s.SetField(types.PointerName, "Ana")
	s, _ = s.SetField(types.PointerEmail, "ana@studio.co")
	s, err = s.SetField(types.PointerMessage, "Hello")
	require.NoError(t, err)

	_, err = s.SetField(types.PointerGoals, "x")
	require.ErrorIs(t, err, ErrFieldNotAllowed)

	sending, err := s.BeginSend()
	require.NoError(t, err)
	assert.Equal(t, types.ContactSending, sending.Step)
	assert.True(t, sending.Loading)

	_, err = sending.SetField(types.PointerName, "Bo")
	require.ErrorIs(t, err, ErrBusy)

	failed, err := sending.CompleteSend(sending.Ticket(), errors.New("rejected"))
	require.NoError(t, err)
	assert.Equal(t, types.ContactEditing, failed.Step)
	assert.Equal(t, s.Form, failed.Form)
	assert.Equal(t, "rejected", failed.ErrorMessage())

	sent, err := sending.CompleteSend(sending.Ticket(), nil)
	require.NoError(t, err)
	assert.Equal(t, types.ContactSent, sent.Step)

	_, err = sent.CompleteSend(sending.Ticket(), nil)
	require.ErrorIs(t, err, ErrStale)
}
