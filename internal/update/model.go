package update

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/petd/internal/flavor"
	"github.com/sandeepkv93/petd/internal/model"
	"github.com/sandeepkv93/petd/internal/scheduler"
	"github.com/sandeepkv93/petd/internal/session"
)

const (
	clockTickInterval = 30 * time.Second
	timelineLength    = 8
	maxNotifications  = 40
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Complete string
	Tip      string
	Report   string
	Palette  string
	Help     string
	Quit     string
}

// Deps are the collaborators the TUI drives. Only Session is required.
type Deps struct {
	Session   *session.Session
	Flavor    *flavor.Service
	Scheduler *scheduler.Engine
	Reload    <-chan struct{}
	Logger    *slog.Logger
}

type Model struct {
	Cursor        int
	Palette       CommandPaletteState
	Setup         SetupState
	Flavor        FlavorState
	Report        ReportState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	ctx     context.Context
	sess    *session.Session
	flavors *flavor.Service
	sched   *scheduler.Engine
	reload  <-chan struct{}
	logger  *slog.Logger

	commandInput textinput.Model
	nameInput    textinput.Model
	breedInput   textinput.Model
	moodMeter    progress.Model
	spinner      spinner.Model
	helpModel    help.Model
	reportView   viewport.Model
	width        int
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type SetupState struct {
	Focus int
	Err   string
}

// FlavorState holds the latest generated text. Results carrying an older Seq are dropped.
type FlavorState struct {
	Seq      int
	Kind     string
	Text     string
	Loading  bool
	Fallback bool
}

type ReportState struct {
	Visible  bool
	Loading  bool
	Markdown string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ReminderDueMsg struct {
	Reminder model.Reminder
}

type FlavorMsg struct {
	Seq    int
	Kind   string
	Result flavor.Result
}

type StoreChangedMsg struct{}

type ClockTickMsg struct {
	At time.Time
}

func NewModel(ctx context.Context, deps Deps) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		ctx:     ctx,
		sess:    deps.Session,
		flavors: deps.Flavor,
		sched:   deps.Scheduler,
		reload:  deps.Reload,
		logger:  deps.Logger,
		Keys: GlobalKeyMap{
			Complete: "enter",
			Tip:      "t",
			Report:   "r",
			Palette:  "/",
			Help:     "?",
			Quit:     "q",
		},
	}
	if m.flavors == nil {
		m.flavors = flavor.NewService(nil, nil)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.initBubbleComponents()
	if m.needsSetup() {
		m.nameInput.Focus()
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 44

	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "Rex"
	m.nameInput.CharLimit = 64
	m.nameInput.Width = 32

	m.breedInput = textinput.New()
	m.breedInput.Placeholder = "Golden Retriever (optional)"
	m.breedInput.CharLimit = 64
	m.breedInput.Width = 32

	m.moodMeter = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage())

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.reportView = viewport.New(100, 16)
}

func (m Model) needsSetup() bool {
	return !m.sess.Snapshot().HasPet()
}
