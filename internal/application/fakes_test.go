package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tierbot/internal/models"
	"tierbot/internal/repository"
)

// memStore is an in-memory stand-in for every repository interface.
// failNext makes the named method return the error once.
type memStore struct {
	mu         sync.Mutex
	players    map[string]*models.Player
	apps       map[int64]*models.Application
	nextAppID  int64
	log        []models.TierAssignment
	guilds     map[string]*models.GuildConfig
	components map[string]models.PersistedComponent
	failNext   map[string]error

	// pendingBarrier, when set, holds every HasPending caller until all
	// expected callers have read the pending state.
	pendingBarrier *sync.WaitGroup
}

func newMemStore() *memStore {
	return &memStore{
		players:    make(map[string]*models.Player),
		apps:       make(map[int64]*models.Application),
		guilds:     make(map[string]*models.GuildConfig),
		components: make(map[string]models.PersistedComponent),
		failNext:   make(map[string]error),
	}
}

func (m *memStore) repos() *repository.Repository {
	return &repository.Repository{Player: m, Application: m, Guild: m, Component: m}
}

func (m *memStore) fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext[method] = err
}

func (m *memStore) takeErr(method string) error {
	err := m.failNext[method]
	delete(m.failNext, method)
	return err
}

func (m *memStore) guild(id string) *models.GuildConfig {
	g, ok := m.guilds[id]
	if !ok {
		g = &models.GuildConfig{GuildID: id}
		m.guilds[id] = g
	}
	return g
}

func (m *memStore) pendingCount(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.apps {
		if a.ApplicantID == userID && a.Status == models.StatusPending {
			n++
		}
	}
	return n
}

func (m *memStore) logEntries() []models.TierAssignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.TierAssignment(nil), m.log...)
}

// Player

func (m *memStore) GetPlayer(ctx context.Context, discordID string) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr("GetPlayer"); err != nil {
		return nil, err
	}
	p, ok := m.players[discordID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ListRanked(ctx context.Context, limit int) ([]models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr("ListRanked"); err != nil {
		return nil, err
	}
	var out []models.Player
	for _, p := range m.players {
		if p.Tier.Ranked() {
			out = append(out, *p)
		}
	}
	board := BuildTierBoard(out, 0, time.Time{})
	var ordered []models.Player
	for _, g := range board.Groups {
		for _, e := range g.Entries {
			ordered = append(ordered, *m.players[e.DiscordID])
		}
	}
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered, nil
}

func (m *memStore) ClearTier(ctx context.Context, discordID, assignedBy string, at time.Time) (models.Tier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr("ClearTier"); err != nil {
		return "", err
	}
	p, ok := m.players[discordID]
	if !ok || !p.Tier.Ranked() {
		return "", repository.ErrNotRanked
	}
	old := p.Tier
	p.Tier = models.TierUnranked
	p.TierAssignedAt = &at
	p.TierAssignedBy = assignedBy
	m.log = append(m.log, models.TierAssignment{
		ID: int64(len(m.log) + 1), DiscordID: discordID, OldTier: old, NewTier: models.TierUnranked,
		AssignedBy: assignedBy, AssignedAt: at,
	})
	return old, nil
}

func (m *memStore) ListAssignments(ctx context.Context, limit int) ([]models.TierAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.TierAssignment, 0, len(m.log))
	for i := len(m.log) - 1; i >= 0; i-- {
		out = append(out, m.log[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Application

func (m *memStore) HasPending(ctx context.Context, applicantID string) (bool, error) {
	m.mu.Lock()
	if err := m.takeErr("HasPending"); err != nil {
		m.mu.Unlock()
		return false, err
	}
	pending := false
	for _, a := range m.apps {
		if a.ApplicantID == applicantID && a.Status == models.StatusPending {
			pending = true
		}
	}
	barrier := m.pendingBarrier
	m.mu.Unlock()

	if barrier != nil {
		barrier.Done()
		barrier.Wait()
	}
	return pending, nil
}

func (m *memStore) CreateApplication(ctx context.Context, app *models.Application) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr("CreateApplication"); err != nil {
		return 0, err
	}
	m.nextAppID++
	cp := *app
	cp.ID = m.nextAppID
	cp.Status = models.StatusPending
	m.apps[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memStore) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr("GetApplication"); err != nil {
		return nil, err
	}
	a, ok := m.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) AttachMessage(ctx context.Context, id int64, channelID, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return fmt.Errorf("application %d missing", id)
	}
	a.ChannelID, a.MessageID = channelID, messageID
	return nil
}

func (m *memStore) Approve(ctx context.Context, id int64, tier models.Tier, processedBy string, at time.Time) (models.Tier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr("Approve"); err != nil {
		return "", err
	}
	a, ok := m.apps[id]
	if !ok || a.Status != models.StatusPending {
		return "", repository.ErrNotPending
	}
	a.Status = models.StatusApproved
	a.ProcessedAt = &at
	a.ProcessedBy = processedBy

	var old models.Tier
	p, ok := m.players[a.ApplicantID]
	if ok {
		old = p.Tier
	} else {
		p = &models.Player{DiscordID: a.ApplicantID, CreatedAt: at}
		m.players[a.ApplicantID] = p
	}
	p.GameID, p.Nickname, p.Clan, p.ProfileLink = a.GameID, a.Nickname, a.Clan, a.ProfileLink
	p.Tier = tier
	p.TierAssignedAt = &at
	p.TierAssignedBy = processedBy

	appID := id
	m.log = append(m.log, models.TierAssignment{
		ID: int64(len(m.log) + 1), DiscordID: a.ApplicantID, OldTier: old, NewTier: tier,
		AssignedBy: processedBy, AssignedAt: at, ApplicationID: &appID,
	})
	return old, nil
}

func (m *memStore) Reject(ctx context.Context, id int64, processedBy string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr("Reject"); err != nil {
		return err
	}
	a, ok := m.apps[id]
	if !ok || a.Status != models.StatusPending {
		return repository.ErrNotPending
	}
	a.Status = models.StatusRejected
	a.ProcessedAt = &at
	a.ProcessedBy = processedBy
	return nil
}

// Guild

func (m *memStore) GetGuildConfig(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr("GetGuildConfig"); err != nil {
		return nil, err
	}
	g, ok := m.guilds[guildID]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (m *memStore) SetApplicationsChannel(ctx context.Context, guildID, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guild(guildID).ApplicationsChannelID = channelID
	return nil
}

func (m *memStore) SetLeaderboard(ctx context.Context, guildID, channelID, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := m.guild(guildID)
	g.LeaderboardChannelID, g.LeaderboardMessageID = channelID, messageID
	return nil
}

func (m *memStore) SetAllowedRoles(ctx context.Context, guildID string, roles []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guild(guildID).AllowedRoles = roles
	return nil
}

func (m *memStore) SetAdminRoles(ctx context.Context, guildID string, roles []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guild(guildID).AdminRoles = roles
	return nil
}

// Component

func (m *memStore) SaveComponent(ctx context.Context, c models.PersistedComponent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr("SaveComponent"); err != nil {
		return err
	}
	m.components[c.MessageID] = c
	return nil
}

func (m *memStore) ListComponents(ctx context.Context) ([]models.PersistedComponent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr("ListComponents"); err != nil {
		return nil, err
	}
	out := make([]models.PersistedComponent, 0, len(m.components))
	for _, c := range m.components {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) DeleteComponent(ctx context.Context, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr("DeleteComponent"); err != nil {
		return err
	}
	delete(m.components, messageID)
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	nextMsg   int
	posted    map[string]string // message id -> channel id
	closed    []int64
	decisions []models.Decision
	removed   []string

	postErr   error
	buttonErr error
	closeErr  error
	dmErr     error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{posted: make(map[string]string)}
}

func (f *fakeNotifier) newMessage(channelID string) string {
	f.nextMsg++
	id := fmt.Sprintf("m%d", f.nextMsg)
	f.posted[id] = channelID
	return id
}

func (f *fakeNotifier) PostApplicationButton(ctx context.Context, channelID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.buttonErr != nil {
		return "", f.buttonErr
	}
	return f.newMessage(channelID), nil
}

func (f *fakeNotifier) PostApplication(ctx context.Context, channelID string, app *models.Application) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return "", f.postErr
	}
	return f.newMessage(channelID), nil
}

func (f *fakeNotifier) ClosePanel(ctx context.Context, app *models.Application, d models.Decision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, app.ID)
	return f.closeErr
}

func (f *fakeNotifier) NotifyDecision(ctx context.Context, app *models.Application, d models.Decision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, d)
	return f.dmErr
}

func (f *fakeNotifier) NotifyTierRemoved(ctx context.Context, userID, actorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, userID)
	return f.dmErr
}

type fakePublisher struct {
	mu         sync.Mutex
	edits      int
	publishes  int
	nextMsg    int
	lastBoard  *TierBoard
	editErr    error
	publishErr error
}

func (f *fakePublisher) PublishBoard(ctx context.Context, channelID string, board *TierBoard) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return "", f.publishErr
	}
	f.publishes++
	f.nextMsg++
	f.lastBoard = board
	return fmt.Sprintf("board%d", f.nextMsg), nil
}

func (f *fakePublisher) EditBoard(ctx context.Context, channelID, messageID string, board *TierBoard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return f.editErr
	}
	f.edits++
	f.lastBoard = board
	return nil
}

type fakeRegistry struct {
	mu     sync.Mutex
	panels map[string]models.Component
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{panels: make(map[string]models.Component)}
}

func (r *fakeRegistry) Register(messageID string, c models.Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panels[messageID] = c
}

func (r *fakeRegistry) Unregister(messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.panels, messageID)
}

func (r *fakeRegistry) get(messageID string) (models.Component, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.panels[messageID]
	return c, ok
}

type fakeResolver struct {
	channels map[string]error
	messages map[string]error
}

func (f *fakeResolver) ResolveChannel(ctx context.Context, channelID string) error {
	return f.channels[channelID]
}

func (f *fakeResolver) ResolveMessage(ctx context.Context, channelID, messageID string) error {
	return f.messages[messageID]
}

type fakeAnnouncer struct {
	mu      sync.Mutex
	changes []TierChange
	err     error
}

func (f *fakeAnnouncer) AnnounceTier(ctx context.Context, change TierChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, change)
	return f.err
}

type fakeMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{counts: make(map[string]int)}
}

func (f *fakeMetrics) inc(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
}

func (f *fakeMetrics) get(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[key]
}

func (f *fakeMetrics) ApplicationSubmitted(o string) { f.inc("submitted:" + o) }
func (f *fakeMetrics) ApplicationDecided(o string)   { f.inc("decided:" + o) }
func (f *fakeMetrics) TierRemoved()                  { f.inc("removed") }
func (f *fakeMetrics) LeaderboardRefreshed(o string) { f.inc("refresh:" + o) }
func (f *fakeMetrics) ComponentRestored(o string)    { f.inc("restore:" + o) }

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// env wires the services against in-memory fakes.
type env struct {
	store     *memStore
	notifier  *fakeNotifier
	publisher *fakePublisher
	registry  *fakeRegistry
	resolver  *fakeResolver
	announcer *fakeAnnouncer
	metrics   *fakeMetrics
	svc       *Service
}

func newEnv() *env {
	e := &env{
		store:     newMemStore(),
		notifier:  newFakeNotifier(),
		publisher: &fakePublisher{},
		registry:  newFakeRegistry(),
		resolver:  &fakeResolver{channels: map[string]error{}, messages: map[string]error{}},
		announcer: &fakeAnnouncer{},
		metrics:   newFakeMetrics(),
	}
	e.svc = NewService(e.store.repos(), Deps{
		Notifier:  e.notifier,
		Publisher: e.publisher,
		Resolver:  e.resolver,
		Registry:  e.registry,
		Announcer: e.announcer,
		Metrics:   e.metrics,
		Clock:     func() time.Time { return fixedNow },
	}, nopLogger{})
	return e
}

const (
	testGuild   = "g1"
	intakeChan  = "c-intake"
	boardChan   = "c-board"
	adminRoleID = "r-admin"
)

// withGuild configures an intake channel, a published tier list and an admin role.
func (e *env) withGuild() *env {
	g := e.store.guild(testGuild)
	g.ApplicationsChannelID = intakeChan
	g.LeaderboardChannelID = boardChan
	g.LeaderboardMessageID = "board0"
	g.AdminRoles = []string{adminRoleID}
	return e
}

func member(id string, roles ...string) models.Actor {
	return models.Actor{UserID: id, GuildID: testGuild, Roles: roles}
}

func moderator() models.Actor {
	return member("mod", adminRoleID)
}

func validForm(tier string) models.ApplicationForm {
	return models.ApplicationForm{GameID: "123456", Nickname: "Nick", Clan: "Clan", DesiredTier: tier}
}
