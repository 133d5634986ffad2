package scenario

import (
	"io"
	"os"

	"github.com/zeebo/errs"
	"gopkg.in/yaml.v2"

	"github.com/opdss/eventbus/eventbus"
)

// Error 场景文件解析与执行错误
var Error = errs.Class("scenario")

// Scenario 描述一次发布: 订阅哪些监听者, 登记哪些事件
type Scenario struct {
	// Policy 失败策略, 为空时使用调用方的配置
	Policy    string         `yaml:"policy"`
	Listeners []ListenerSpec `yaml:"listeners"`
	Events    []EventSpec    `yaml:"events"`
}

type ListenerSpec struct {
	Topic string `yaml:"topic"`
	Kind  string `yaml:"kind"`
	Name  string `yaml:"name"`
}

type EventSpec struct {
	Topic string      `yaml:"topic"`
	Type  string      `yaml:"type"`
	Value interface{} `yaml:"value"`
}

// Load 读取并解析场景文件
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return Parse(data)
}

// Parse 解析yaml格式的场景
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, Error.Wrap(err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Policy != "" {
		if _, err := eventbus.ParsePolicy(s.Policy); err != nil {
			return Error.Wrap(err)
		}
	}
	for i, l := range s.Listeners {
		if _, ok := listenerKinds[l.Kind]; !ok {
			return Error.New("listener %d: unknown kind %q", i, l.Kind)
		}
	}
	for i, e := range s.Events {
		if _, err := payload(e); err != nil {
			return Error.New("event %d: %v", i, err)
		}
	}
	return nil
}

// Apply 订阅场景中的监听者并登记事件, 监听者的输出写入out
func (s *Scenario) Apply(bus *eventbus.Bus, out io.Writer) error {
	for _, spec := range s.Listeners {
		l, err := NewListener(spec, out)
		if err != nil {
			return err
		}
		bus.Subscribe(spec.Topic, l)
	}
	for _, spec := range s.Events {
		ev, err := NewEvent(spec)
		if err != nil {
			return err
		}
		bus.Register(spec.Topic, ev)
	}
	return nil
}

// Run 执行Apply后发布
func (s *Scenario) Run(bus *eventbus.Bus, out io.Writer) (eventbus.Report, error) {
	if err := s.Apply(bus, out); err != nil {
		return eventbus.Report{}, err
	}
	return bus.Flush()
}

// Demo 内置示例: 两个字符串监听者订阅bar, 一个数字监听者订阅foo,
// 最后一个foo事件的类型不匹配
func Demo() *Scenario {
	return &Scenario{
		Listeners: []ListenerSpec{
			{Topic: "bar", Kind: KindEcho, Name: "String Subscriber 1"},
			{Topic: "bar", Kind: KindEcho, Name: "String Subscriber 2"},
			{Topic: "foo", Kind: KindIncrement, Name: "Number Subscriber"},
		},
		Events: []EventSpec{
			{Topic: "foo", Type: TypeNumber, Value: 32},
			{Topic: "bar", Type: TypeString, Value: "hello"},
			{Topic: "foo", Type: TypeString, Value: "hello"},
		},
	}
}
