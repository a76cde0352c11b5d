// Package rabbitmq содержит подключение к RabbitMQ, настройку очередей,
// публикацию и потребление сообщений об истекающих абонементах.
package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди уведомлений об абонементах.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.upcoming", RoutingKey: "upcoming"},
		// при необходимости дополнительные очереди для других воркеров
	}
}
