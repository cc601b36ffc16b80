package character

import "errors"

// ErrSkillSlotsFull is returned by AddSkill when the character already
// holds as many skills as its level allows.
var ErrSkillSlotsFull = errors.New("skill slots full")
