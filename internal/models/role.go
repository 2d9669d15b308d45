package models

// RoleKind identifies a role in the catalog
type RoleKind string

const (
	// RoleMafia is a rank-and-file mafia member
	RoleMafia RoleKind = "mafia"

	// RoleDon is the mafia boss
	RoleDon RoleKind = "don"

	// RoleSheriff investigates players for mafia alignment
	RoleSheriff RoleKind = "sheriff"

	// RoleDoctor heals one player per night
	RoleDoctor RoleKind = "doctor"

	// RolePeace is a plain town member with no night action
	RolePeace RoleKind = "peace"

	// RoleMistress blocks one player's night action
	RoleMistress RoleKind = "mistress"

	// RoleDrunkard silences one player for the next day vote
	RoleDrunkard RoleKind = "drunkard"

	// RoleKamikaze takes one of their executioners down with them
	RoleKamikaze RoleKind = "kamikaze"

	// RoleDeputy inherits the sheriff role if the sheriff dies
	RoleDeputy RoleKind = "deputy"

	// RoleSnowman shields one player from the night shot
	RoleSnowman RoleKind = "snowman"

	// RoleAngel blesses one player against execution
	RoleAngel RoleKind = "angel"

	// RoleTracker follows one player at night
	RoleTracker RoleKind = "tracker"

	// RoleBell is a town member with no night action
	RoleBell RoleKind = "bell"

	// RoleShadow hides a player from investigative checks
	RoleShadow RoleKind = "shadow"

	// RoleKrampus is a neutral troublemaker
	RoleKrampus RoleKind = "krampus"

	// RoleGrinch steals from one player at night
	RoleGrinch RoleKind = "grinch"

	// RoleXmasSanta is the target role in the triad variant
	RoleXmasSanta RoleKind = "xmas_santa"

	// RoleXmasElf is the loyal elf in the triad variant
	RoleXmasElf RoleKind = "xmas_elf"

	// RoleXmasDarkElf is the hunter in the triad variant
	RoleXmasDarkElf RoleKind = "xmas_dark_elf"
)

// Alignment is the faction a role wins with
type Alignment string

const (
	// AlignmentTown wins when all mafia-aligned players are eliminated
	AlignmentTown Alignment = "town"

	// AlignmentMafia wins when mafia-aligned players reach parity with town
	AlignmentMafia Alignment = "mafia"

	// AlignmentNeutral has no faction win condition and is excluded from
	// the win-condition partition
	AlignmentNeutral Alignment = "neutral"
)

// NightAction is the kind of night action a role may perform
type NightAction string

const (
	// NightActionNone means the role has no night action
	NightActionNone NightAction = ""

	// NightActionBlock removes the target's night action (mistress)
	NightActionBlock NightAction = "block"

	// NightActionSilence mutes the target for the next day vote (drunkard)
	NightActionSilence NightAction = "silence"

	// NightActionShot is the mafia kill attempt
	NightActionShot NightAction = "shot"

	// NightActionCheckSheriff is the don's search for the sheriff
	NightActionCheckSheriff NightAction = "check_sheriff"

	// NightActionCheckMafia is the sheriff's alignment check
	NightActionCheckMafia NightAction = "check_mafia"

	// NightActionHeal protects the target from the night shot (doctor)
	NightActionHeal NightAction = "heal"

	// NightActionShield protects the target from the night shot (snowman)
	NightActionShield NightAction = "shield"

	// NightActionBless protects the target from execution (angel)
	NightActionBless NightAction = "bless"

	// NightActionTrack follows the target (tracker)
	NightActionTrack NightAction = "track"

	// NightActionHide masks the target from checks (shadow)
	NightActionHide NightAction = "hide"

	// NightActionSteal takes the target's present (grinch)
	NightActionSteal NightAction = "steal"
)

// Role is a catalog entry: display metadata plus alignment and the night
// action the role is allowed to perform
type Role struct {
	// Kind is the role identifier
	Kind RoleKind

	// Title is the display name shown to players
	Title string

	// Alignment is the role's faction
	Alignment Alignment

	// NightAction is the action the role performs at night, if any
	NightAction NightAction
}

// roleCatalog is the immutable role table, built once at init
var roleCatalog = map[RoleKind]Role{
	RoleMafia:       {Kind: RoleMafia, Title: "🎩 Hellebore (Mafia)", Alignment: AlignmentMafia, NightAction: NightActionShot},
	RoleDon:         {Kind: RoleDon, Title: "🕯 Dark Elf (Don)", Alignment: AlignmentMafia, NightAction: NightActionCheckSheriff},
	RoleSheriff:     {Kind: RoleSheriff, Title: "🎅 Santa (Sheriff)", Alignment: AlignmentTown, NightAction: NightActionCheckMafia},
	RoleDoctor:      {Kind: RoleDoctor, Title: "🧦 Healer Elf (Doctor)", Alignment: AlignmentTown, NightAction: NightActionHeal},
	RolePeace:       {Kind: RolePeace, Title: "🎁 Gentle Soul (Civilian)", Alignment: AlignmentTown, NightAction: NightActionNone},
	RoleMistress:    {Kind: RoleMistress, Title: "💃 Snow Maiden (Mistress)", Alignment: AlignmentNeutral, NightAction: NightActionBlock},
	RoleDrunkard:    {Kind: RoleDrunkard, Title: "🍷 Tired Reindeer (Drunkard)", Alignment: AlignmentNeutral, NightAction: NightActionSilence},
	RoleKamikaze:    {Kind: RoleKamikaze, Title: "🧨 Firecracker (Kamikaze)", Alignment: AlignmentTown, NightAction: NightActionNone},
	RoleDeputy:      {Kind: RoleDeputy, Title: "👮 Junior Reindeer (Deputy)", Alignment: AlignmentTown, NightAction: NightActionNone},
	RoleSnowman:     {Kind: RoleSnowman, Title: "🛷 Snowman (Bodyguard)", Alignment: AlignmentTown, NightAction: NightActionShield},
	RoleAngel:       {Kind: RoleAngel, Title: "✨ Angel (Rescuer)", Alignment: AlignmentTown, NightAction: NightActionBless},
	RoleTracker:     {Kind: RoleTracker, Title: "🧊 Tracker", Alignment: AlignmentTown, NightAction: NightActionTrack},
	RoleBell:        {Kind: RoleBell, Title: "🔔 Little Bell", Alignment: AlignmentTown, NightAction: NightActionNone},
	RoleShadow:      {Kind: RoleShadow, Title: "🌑 Shadow", Alignment: AlignmentNeutral, NightAction: NightActionHide},
	RoleKrampus:     {Kind: RoleKrampus, Title: "💀 Krampus", Alignment: AlignmentNeutral, NightAction: NightActionNone},
	RoleGrinch:      {Kind: RoleGrinch, Title: "🎄 Grinch", Alignment: AlignmentNeutral, NightAction: NightActionSteal},
	RoleXmasSanta:   {Kind: RoleXmasSanta, Title: "🎅 Santa (Target)", Alignment: AlignmentTown, NightAction: NightActionNone},
	RoleXmasElf:     {Kind: RoleXmasElf, Title: "🛡 Loyal Elf", Alignment: AlignmentTown, NightAction: NightActionNone},
	RoleXmasDarkElf: {Kind: RoleXmasDarkElf, Title: "🏹 Dark Elf", Alignment: AlignmentMafia, NightAction: NightActionShot},
}

// LookupRole returns the catalog entry for a role kind
func LookupRole(kind RoleKind) (Role, bool) {
	role, ok := roleCatalog[kind]
	return role, ok
}

// RoleTitle returns the display title for a role kind, with a fallback for
// unknown codes
func RoleTitle(kind RoleKind) string {
	if role, ok := roleCatalog[kind]; ok {
		return role.Title
	}
	return "❓ Unknown (" + string(kind) + ")"
}

// IsMafiaAligned reports whether a role kind belongs to the mafia faction
func IsMafiaAligned(kind RoleKind) bool {
	role, ok := roleCatalog[kind]
	return ok && role.Alignment == AlignmentMafia
}
