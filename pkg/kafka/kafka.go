package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	kratoslog "github.com/go-kratos/kratos/v2/log"
)

// Producer Kafka异步生产者
type Producer struct {
	asyncProducer sarama.AsyncProducer
	logger        kratoslog.Logger
}

// InitProducer 初始化生产者，按key哈希分区保证同一评论的事件有序
func InitProducer(brokers []string, logger kratoslog.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.Partitioner = sarama.NewHashPartitioner

	asyncProducer, err := sarama.NewAsyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	p := &Producer{asyncProducer: asyncProducer, logger: logger}
	go p.drain()
	return p, nil
}

// drain 消费成功与失败回执，失败只记日志不重试
func (p *Producer) drain() {
	for {
		select {
		case _, ok := <-p.asyncProducer.Successes():
			if !ok {
				return
			}
		case err, ok := <-p.asyncProducer.Errors():
			if !ok {
				return
			}
			if p.logger != nil {
				p.logger.Log(kratoslog.LevelError,
					"msg", "Kafka produce failed",
					"topic", err.Msg.Topic,
					"error", err.Err,
				)
			}
		}
	}
}

// SendMessage 发送消息
func (p *Producer) SendMessage(topic string, key, value []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(value),
	}
	p.asyncProducer.Input() <- msg
	return nil
}

// SendJSON 序列化为JSON后发送
func (p *Producer) SendJSON(topic string, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return p.SendMessage(topic, []byte(key), value)
}

// Close 关闭生产者
func (p *Producer) Close() error {
	return p.asyncProducer.Close()
}
