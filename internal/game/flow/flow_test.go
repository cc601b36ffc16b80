package flow_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdumontet/ringside/internal/game/character"
	"github.com/fdumontet/ringside/internal/game/flow"
	"github.com/fdumontet/ringside/internal/game/skill"
)

// fixedSrc is a deterministic Source for testing.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

func newManager() *flow.Manager {
	return flow.NewManager(time.Minute, 30*time.Second, fixedSrc{val: 0})
}

func TestCreateCharacter_FullDialog(t *testing.T) {
	m := newManager()
	_, err := m.BeginCreateCharacter(1)
	require.NoError(t, err)

	steps := []struct {
		input string
		next  flow.Step
	}{
		{"Asha", flow.StepTalent},
		{"fortress", flow.StepSkillName},
		{"Iron Fist", flow.StepSkillEffect},
		{"A crushing punch", flow.StepSkillCategory},
		{"attack", flow.StepSkillName},
		{"Stone Wall", flow.StepSkillEffect},
		{"An immovable stance", flow.StepSkillCategory},
	}
	for _, s := range steps {
		adv, err := m.Advance(1, s.input)
		require.NoError(t, err)
		require.False(t, adv.Done)
		assert.Equal(t, s.next, adv.Next)
	}

	adv, err := m.Advance(1, "restrictive")
	require.NoError(t, err)
	require.True(t, adv.Done)
	require.NotNil(t, adv.Character)

	ch := adv.Character
	assert.Equal(t, "Asha", ch.Name)
	assert.EqualValues(t, 1, ch.OwnerID)
	assert.Equal(t, character.Fortress, ch.Talent)
	require.Len(t, ch.Skills, 2)
	assert.Equal(t, skill.Attack, ch.Skills[0].Category)
	assert.Equal(t, skill.Restrictive, ch.Skills[1].Category)

	// The flow is gone.
	_, ok := m.Get(1)
	assert.False(t, ok)
}

func TestCreateCharacter_RandomTalent(t *testing.T) {
	m := flow.NewManager(time.Minute, 30*time.Second, fixedSrc{val: 3})
	_, err := m.BeginCreateCharacter(1)
	require.NoError(t, err)

	_, err = m.Advance(1, "Asha")
	require.NoError(t, err)
	adv, err := m.Advance(1, "random")
	require.NoError(t, err)
	assert.Equal(t, flow.StepSkillName, adv.Next)

	p, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, flow.StepSkillName, p.Step)
}

func TestAdvance_InvalidInputKeepsStep(t *testing.T) {
	m := newManager()
	_, err := m.BeginCreateCharacter(1)
	require.NoError(t, err)

	_, err = m.Advance(1, "   ")
	assert.ErrorIs(t, err, flow.ErrInvalidInput)

	p, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, flow.StepName, p.Step)

	_, err = m.Advance(1, "Asha")
	require.NoError(t, err)
	_, err = m.Advance(1, "juggernaut")
	assert.ErrorIs(t, err, flow.ErrInvalidInput)
}

func TestBegin_OnePerPlayer(t *testing.T) {
	m := newManager()
	_, err := m.BeginCreateCharacter(1)
	require.NoError(t, err)
	_, err = m.BeginCreateCharacter(1)
	assert.ErrorIs(t, err, flow.ErrFlowInProgress)

	// Another player is unaffected.
	_, err = m.BeginCreateCharacter(2)
	assert.NoError(t, err)
}

func TestBeginAddSkill_SlotGate(t *testing.T) {
	m := newManager()
	ch := character.New("Asha", 1, character.Peerless)
	_ = ch.AddSkill(&skill.Skill{Name: "Jab", Category: skill.Attack})
	_ = ch.AddSkill(&skill.Skill{Name: "Hex", Category: skill.Malus})

	_, err := m.BeginAddSkill(1, ch)
	assert.ErrorIs(t, err, character.ErrSkillSlotsFull)
}

func TestAddSkill_Dialog(t *testing.T) {
	m := newManager()
	ch := character.New("Asha", 1, character.Peerless)
	_, err := m.BeginAddSkill(1, ch)
	require.NoError(t, err)

	_, err = m.Advance(1, "Hex")
	require.NoError(t, err)
	_, err = m.Advance(1, "A withering curse")
	require.NoError(t, err)
	adv, err := m.Advance(1, "malus")
	require.NoError(t, err)

	require.True(t, adv.Done)
	require.NotNil(t, adv.Skill)
	assert.Equal(t, "Hex", adv.Skill.Name)
	assert.Equal(t, skill.Malus, adv.Skill.Category)
	// The draft and its target are returned, not applied.
	assert.Same(t, ch, adv.Target)
	assert.Empty(t, ch.Skills)
}

func TestDeleteCharacter_Confirmed(t *testing.T) {
	m := newManager()
	_, err := m.BeginDeleteCharacter(1, "Asha")
	require.NoError(t, err)

	adv, err := m.Advance(1, "yes")
	require.NoError(t, err)
	require.True(t, adv.Done)
	assert.True(t, adv.Confirmed)
	assert.Equal(t, "Asha", adv.Name)

	_, ok := m.Get(1)
	assert.False(t, ok)
}

func TestDeleteCharacter_Declined(t *testing.T) {
	m := newManager()
	_, err := m.BeginDeleteCharacter(1, "Asha")
	require.NoError(t, err)

	adv, err := m.Advance(1, "no")
	require.NoError(t, err)
	require.True(t, adv.Done)
	assert.False(t, adv.Confirmed)
	assert.Equal(t, "Asha", adv.Name)
}

func TestDeleteCharacter_InvalidAnswerKeepsStep(t *testing.T) {
	m := newManager()
	_, err := m.BeginDeleteCharacter(1, "Asha")
	require.NoError(t, err)

	_, err = m.Advance(1, "maybe")
	assert.ErrorIs(t, err, flow.ErrInvalidInput)

	p, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, flow.StepConfirm, p.Step)
}

func TestExpire_AbandonsWholesale(t *testing.T) {
	m := newManager()
	_, err := m.BeginCreateCharacter(1)
	require.NoError(t, err)
	_, err = m.Advance(1, "Asha")
	require.NoError(t, err)

	expired := m.Expire(time.Now().Add(2 * time.Minute))
	assert.Equal(t, []int64{1}, expired)

	// No partial draft survives.
	_, ok := m.Get(1)
	assert.False(t, ok)
	_, err = m.Advance(1, "fortress")
	assert.ErrorIs(t, err, flow.ErrNoFlow)

	// The player can start over.
	_, err = m.BeginCreateCharacter(1)
	assert.NoError(t, err)
}

func TestCancel(t *testing.T) {
	m := newManager()
	require.ErrorIs(t, m.Cancel(1), flow.ErrNoFlow)

	_, err := m.BeginCreateCharacter(1)
	require.NoError(t, err)
	require.NoError(t, m.Cancel(1))
	_, ok := m.Get(1)
	assert.False(t, ok)
}

func TestDeadlineTimerExpiresFlow(t *testing.T) {
	m := flow.NewManager(20*time.Millisecond, 20*time.Millisecond, fixedSrc{val: 0})
	expired := make(chan int64, 1)
	m.Notify(func(id int64) { expired <- id })

	_, err := m.BeginCreateCharacter(7)
	require.NoError(t, err)

	select {
	case id := <-expired:
		assert.EqualValues(t, 7, id)
	case <-time.After(2 * time.Second):
		t.Fatal("deadline timer never fired")
	}

	// The flow is gone; the player can start over.
	_, ok := m.Get(7)
	assert.False(t, ok)
	_, err = m.BeginCreateCharacter(7)
	assert.NoError(t, err)
}

func TestCompletedFlowNeverNotifies(t *testing.T) {
	m := flow.NewManager(200*time.Millisecond, 200*time.Millisecond, fixedSrc{val: 0})
	expired := make(chan int64, 1)
	m.Notify(func(id int64) { expired <- id })

	_, err := m.BeginDeleteCharacter(1, "Asha")
	require.NoError(t, err)
	adv, err := m.Advance(1, "no")
	require.NoError(t, err)
	require.True(t, adv.Done)

	select {
	case id := <-expired:
		t.Fatalf("completed flow for player %d reported as expired", id)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestStepTimer_FiresAndStops(t *testing.T) {
	var mu sync.Mutex
	fired := 0

	timer := flow.NewStepTimer(10*time.Millisecond, func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, fired)
	mu.Unlock()

	timer.Reset(10*time.Millisecond, func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	timer.Stop()
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, fired)
	mu.Unlock()
}
