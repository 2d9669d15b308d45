// Package lang holds every chat-facing text in one place. Templates use
// fmt verbs; callers fill them with fmt.Sprintf.
package lang

// Lobby and join-request texts
const (
	RequestCreated = "%s is gathering a mafia game!\nPlayers (%d/%d):\n%s"

	RequestExpired = "The recruitment for %s's game has expired."

	RequestFull = "The table is full, the game can start."

	GameStarting = "The game begins! Check your private messages for your card."

	LobbyCardPrompt = "Take your card. Tap the button below to see your role."

	LobbyCardDealt = "Your role: %s"

	MafiaTeamReveal = "Your team tonight: %s"

	MafiaTeamAlone = "You work alone tonight."
)

// Day cycle texts
const (
	MorningMessage = "☀️ Day %d. %s to go.%s%s\n\nPlayers at the table:\n%s"

	MorningPeaceful = "\nThe night went by peacefully. Everyone is alive."

	MorningVictim = "During the night %s (%d) was killed."

	DeputyPromoted = "The sheriff is dead. You take over the badge: you are the sheriff now."

	VoteStart = "\U0001f5f3 Time to vote. Who is the mafia?\n\n%s"

	VoteListEmpty = "Nobody has voted yet."

	VoteAbstainedLine = "\U0001f636 Abstained: %s"

	VoteResultNobody = "The town could not agree. Nobody goes to jail today."

	VoteResultJail = "%s (%d) has been sent to jail by the town's vote."

	VoteSavedAngel = "%s was about to be jailed, but an angel's blessing spared them."

	KamikazeBoom = "The convict turned out to be the kamikaze! The blast takes %s along."

	NightStart = "\U0001f319 Night falls over the town. Everyone goes to sleep."
)

// Private night prompts, by role
const (
	ActionBlocked = "You were distracted this night. Your ability stays unused."

	ActionAccepted = "Your choice is made."

	MistressPM = "Pick a guest for tonight. Their night action will be blocked."

	DrunkardPM = "Pick a drinking partner. They will be too hungover to speak tomorrow."

	MafiaPM = "Pick the victim. %s"

	DonPM = "Pick a player to check for the sheriff's badge."

	DonCheckYes = "%s is the sheriff."

	DonCheckNo = "%s is not the sheriff."

	SheriffPM = "Pick a player to check for mafia ties."

	SheriffCheckYes = "%s is with the mafia."

	SheriffCheckNo = "%s is clean."

	CheckHidden = "You find nothing. The trail disappears into the shadows."

	DoctorPM = "Pick a patient to treat tonight."

	SnowmanPM = "Pick a player to wall in with snow. They cannot be killed tonight."

	AngelPM = "Pick a player to bless. The town cannot jail them tomorrow."

	TrackerPM = "Pick a player to follow tonight."

	TrackerVisited = "%s left their house during the night."

	TrackerStayedHome = "%s stayed home all night."

	ShadowPM = "Pick a player to hide in the shadows. Checks will not find them tonight."

	GrinchPM = "Pick a player to rob. Their presents are yours."
)

// Night event texts
const (
	EventBlizzard = "❄️ A blizzard rages over the town. All checks are clouded tonight."

	EventBonfire = "\U0001f525 A bonfire burns on the square. The town feels a little safer."

	EventFirework = "\U0001f386 Fireworks light up the sky. The night is shorter than usual."
)

// Game end texts
const (
	TownWins = "The town wins! All mafia are behind bars."

	MafiaWins = "The mafia wins! The town is theirs now."

	GameOverRoles = "%s\n\nThe cards on the table:\n%s"

	GameCancelled = "The game has been called off."
)

// Poll texts
const (
	PollSkipStarted = "%s proposes to skip this stage. %d votes needed."

	PollEndStarted = "%s proposes to end the game. %d votes needed."

	PollProgress = "Votes so far: %d/%d."

	PollSkipPassed = "The stage has been skipped by popular demand."

	PollEndPassed = "The players have voted to end the game."
)

// Croco texts
const (
	CrocoStarted = "%s is the host! Explain your word without saying it."

	CrocoWordPM = "Your word: %s"

	CrocoGuessed = "✅ Correct! %s guessed the word \"%s\"!"

	CrocoHostSlipped = "Game over! The host (%s) said the word themselves! The word was: %s"

	CrocoNoGame = "No croco round is running. Start one first."
)

// Gallows texts. The board template takes result, word display, attempts
// line, the stickman art and the per-player score block.
const (
	GallowsBoard = "%s\n\n<code> ———\n |  %s\n | %s\n | %s\n_|_</code>\n\nWord: %s%s%s"

	GallowsAttempts = "\nTried: %s"

	GallowsInProgress = "Gallows in progress."

	GallowsWin = "Victory! The word: %s"

	GallowsLose = "You lost. The word was: %s"

	GallowsLetterTaken = "%s, the letter \"%s\" was already tried!"
)

// Stickman holds the gallows drawing by wrong-guess count. Each entry is
// head, torso and legs lines for the board template.
var Stickman = [][3]string{
	{"", "", ""},
	{" 0", "", ""},
	{" 0", " |", ""},
	{" 0", "/|", ""},
	{" 0", "/|\\", ""},
	{" 0", "/|\\", "/"},
	{" 0", "/|\\", "/ \\"},
}

// MaxWrongGuesses is how many wrong letters hang the man
const MaxWrongGuesses = 6
