package network

import (
	"sync"

	"frontline-server/pkg/api"
	"frontline-server/pkg/logger"
)

// FrameBuffer - сколько кадров ждет медленного клиента, прежде чем кадры начнут теряться.
const FrameBuffer = 32

// Broadcaster занимается только рассылкой кадров подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID клиента -> Личный канал
	subscribers map[string]chan api.Frame
	dropped     map[string]int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.Frame),
		dropped:     make(map[string]int),
	}
}

// Register создает личный канал для клиента (рендерера или наблюдателя)
func (b *Broadcaster) Register(clientID string) <-chan api.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Переподключение с тем же ID: старый канал закрываем
	if old, ok := b.subscribers[clientID]; ok {
		close(old)
	}

	ch := make(chan api.Frame, FrameBuffer)
	b.subscribers[clientID] = ch
	b.dropped[clientID] = 0
	return ch
}

// Unregister удаляет подписчика, если за clientID все еще числится ch.
// Канал, уже замененный переподключением, не трогается.
func (b *Broadcaster) Unregister(clientID string, ch <-chan api.Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.subscribers[clientID]
	if !ok || (<-chan api.Frame)(cur) != ch {
		return
	}
	close(cur)
	delete(b.subscribers, clientID)
	if n := b.dropped[clientID]; n > 0 {
		logger.Log.WithField("client", clientID).WithField("dropped", n).Info("Subscriber lagged behind")
	}
	delete(b.dropped, clientID)
}

// Broadcast отправляет кадр всем. Полный канал кадр пропускает:
// симуляция не ждет медленных клиентов.
func (b *Broadcaster) Broadcast(frame api.Frame) {
	b.mu.RLock()
	var lagging []string
	for id, ch := range b.subscribers {
		select {
		case ch <- frame:
		default:
			lagging = append(lagging, id)
		}
	}
	b.mu.RUnlock()

	if len(lagging) == 0 {
		return
	}
	b.mu.Lock()
	for _, id := range lagging {
		if _, ok := b.subscribers[id]; ok {
			b.dropped[id]++
		}
	}
	b.mu.Unlock()
}

// HasSubscriber проверяет, подключен ли клиент
func (b *Broadcaster) HasSubscriber(clientID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[clientID]
	return ok
}

// Dropped - сколько кадров клиент пропустил.
func (b *Broadcaster) Dropped(clientID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped[clientID]
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
