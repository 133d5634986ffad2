package event

// Listener 事件监听者,发布时三个阶段依次被调用,返回error表示处理失败
type Listener interface {
	// OnBefore 预处理,可校验或改写事件数据
	OnBefore(MutableEvent) error
	// OnEvent 主处理
	OnEvent(MutableEvent) error
	// OnAfter 收尾处理,只能读取事件
	OnAfter(Event) error
}

// Publisher 将已登记的事件分发给监听者
type Publisher interface {
	Publish() error
	Clear()
}
