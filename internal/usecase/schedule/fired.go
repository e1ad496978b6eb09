package schedule

import "hilal/internal/domain"

// DefaultFiredCapacity задаёт предел реестра, после которого он очищается.
const DefaultFiredCapacity = 120

// FiredRegistry запоминает разосланные события в пределах жизни процесса.
// Очистка безопасна: устаревшие ключи подавляют только уже прошедшие события.
type FiredRegistry struct {
	capacity int
	keys     map[domain.FiredKey]struct{}
}

// NewFiredRegistry создаёт реестр с указанной ёмкостью.
func NewFiredRegistry(capacity int) *FiredRegistry {
	if capacity <= 0 {
		capacity = DefaultFiredCapacity
	}
	return &FiredRegistry{capacity: capacity, keys: make(map[domain.FiredKey]struct{}, capacity)}
}

// Contains сообщает, было ли событие уже разослано.
func (r *FiredRegistry) Contains(key domain.FiredKey) bool {
	_, ok := r.keys[key]
	return ok
}

// Insert добавляет ключ и возвращает true, если перед этим реестр был очищен.
func (r *FiredRegistry) Insert(key domain.FiredKey) bool {
	cleared := false
	if len(r.keys) >= r.capacity {
		clear(r.keys)
		cleared = true
	}
	r.keys[key] = struct{}{}
	return cleared
}

// Len возвращает количество ключей.
func (r *FiredRegistry) Len() int {
	return len(r.keys)
}
