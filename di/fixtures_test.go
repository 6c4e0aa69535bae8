package di_test

// Collaborators

type MockLogger struct{ prefix string }

func (l *MockLogger) Log(message string) string { return "Logged: " + l.prefix + message }

type MockTaskManager struct{}

func (m *MockTaskManager) CreateTask(name string) string { return "Task " + name + " created" }

// Use cases

type ValidUseCase struct {
	logger      *MockLogger      `inject:"logger"`
	taskManager *MockTaskManager `inject:"taskManager"`
}

func (u *ValidUseCase) Execute(taskName string) string {
	task := u.prepareTask(taskName)
	return u.logger.Log("Executing " + task)
}

func (u *ValidUseCase) prepareTask(taskName string) string {
	return u.taskManager.CreateTask(taskName)
}

type MockAddTaskCommand struct{}

func (c *MockAddTaskCommand) Execute(name string) string { return "Task " + name + " created" }

type OtherValidUseCase struct {
	logger  *MockLogger         `inject:"logger"`
	addTask *MockAddTaskCommand `inject:"addTask"`
}

func (u *OtherValidUseCase) Execute(taskName string) string {
	return u.logger.Log("Executing " + u.addTask.Execute(taskName))
}

type EmptyUseCase struct{}

func (EmptyUseCase) Execute(name string) string { return "Task " + name + " created" }

type CallUseCase struct {
	Greeting string
}

func (u *CallUseCase) Call() string { return u.Greeting }

type InvalidUseCase struct {
	logger *MockLogger `inject:"logger"`
}

func (u *InvalidUseCase) log(msg string) string { return u.logger.Log(msg) }

type DuplicateTriggerUseCase struct{}

func (u *DuplicateTriggerUseCase) Execute() {}
func (u *DuplicateTriggerUseCase) Call()    {}

type InvalidPublicMethodUseCase struct {
	logger *MockLogger `inject:"logger"`
}

func (u *InvalidPublicMethodUseCase) Execute(taskName string) string {
	return u.logger.Log("Executing " + taskName)
}

func (u *InvalidPublicMethodUseCase) ExtraPublicMethod() string { return "This should raise an error" }
func (u *InvalidPublicMethodUseCase) Helper() string            { return "also not allowed" }

// EmbeddingUseCase picks up Log from MockLogger; promoted methods are not
// part of its own surface.
type EmbeddingUseCase struct {
	*MockLogger
}

func (u *EmbeddingUseCase) Execute() string { return "ok" }

// Nested classes: OuterUseCase depends on the declared InnerUseCase.

type InnerUseCase struct {
	taskManager *MockTaskManager `inject:"taskManager"`
}

func (u *InnerUseCase) Execute(name string) string { return u.taskManager.CreateTask(name) }

type OuterUseCase struct {
	logger *MockLogger   `inject:"logger"`
	inner  *InnerUseCase `inject:"inner"`
}

func (u *OuterUseCase) Execute(name string) string {
	return u.logger.Log("Executing " + u.inner.Execute(name))
}

// BrokenOuterUseCase depends on a class that cannot be built.
type BrokenOuterUseCase struct {
	inner *InvalidUseCase `inject:"inner"`
}

func (u *BrokenOuterUseCase) Execute() bool { return u.inner != nil }

// Slot plan fixtures.

type ValueSlotsUseCase struct {
	name   string `inject:"name"`
	count  int    `inject:"count"`
	Logger *MockLogger
	cache  map[string]string `inject:"-"`
}

func (u *ValueSlotsUseCase) Execute() string {
	if u.cache == nil {
		u.cache = map[string]string{}
	}
	u.cache[u.name] = u.Logger.Log(u.name)
	return u.cache[u.name]
}

type UnboundSlotUseCase struct {
	logger *MockLogger `inject:"logger"`
	db     *struct{}   `inject:"db"`
}

func (u *UnboundSlotUseCase) Execute() bool { return u.logger != nil && u.db != nil }

type Greeter interface{ Greet() string }

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

type InterfaceSlotUseCase struct {
	greeter Greeter `inject:"greeter"`
}

func (u *InterfaceSlotUseCase) Call() string { return u.greeter.Greet() }

// Shadowing: a method declared on the class wins over the promoted one and
// counts toward its own surface.

type taskBase struct{}

func (taskBase) Execute() string { return "base" }
func (*taskBase) Helper() string { return "base helper" }

// OverridingUseCase declares its own Execute over the promoted one.
type OverridingUseCase struct {
	taskBase
}

func (u *OverridingUseCase) Execute() string { return "own" }

// OverridingValueUseCase does the same with a value receiver.
type OverridingValueUseCase struct {
	taskBase
}

func (OverridingValueUseCase) Execute() string { return "own value" }

// ShadowingHelperUseCase redeclares the promoted Helper next to its trigger.
type ShadowingHelperUseCase struct {
	*taskBase
}

func (u *ShadowingHelperUseCase) Execute() string { return "own" }
func (u *ShadowingHelperUseCase) Helper() string  { return "own helper" }

// InheritedOnlyUseCase has nothing but promoted methods.
type InheritedOnlyUseCase struct {
	taskBase
}
