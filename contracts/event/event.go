package event

// Topic 事件主题,事件与监听者通过主题关联
type Topic = string

// Event 事件的只读视图
type Event interface {
	// ID 事件唯一标识,仅用于追踪
	ID() string
	// Data 事件当前持有的数据
	Data() any
}

// MutableEvent 可修改数据的事件
type MutableEvent interface {
	Event
	// SetData 整体替换事件数据,类型可以与之前不同
	SetData(data any)
}
