package iterator

// Iterator 单向迭代器
type Iterator[T any] interface {
	//Next 是否还有数据
	Next() bool
	//Value 取出当前数据并前移, 没有数据时返回零值
	Value() T
}
