package events

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
)

func ratedEvent() recipe.RecipeRatedEvent {
	return recipe.RecipeRatedEvent{
		RecipeID: "2",
		Rating:   4,
		RatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisherSendsKeyedEnvelope(t *testing.T) {
	// Arrange
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var env Envelope
		if err := json.Unmarshal(val, &env); err != nil {
			return err
		}
		if env.Name != "recipe.rated" || env.Key != "2" {
			return stderrors.New("unexpected envelope " + env.Name + "/" + env.Key)
		}
		return nil
	})
	publisher := NewKafkaPublisherWithProducer(producer, "pantry.recipe-events", zaptest.NewLogger(t))

	// Act
	err := publisher.Publish(context.Background(), ratedEvent())

	// Assert
	require.NoError(t, err)
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisherReportsBrokerFailure(t *testing.T) {
	// Arrange
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	publisher := NewKafkaPublisherWithProducer(producer, "pantry.recipe-events", zaptest.NewLogger(t))

	// Act
	err := publisher.Publish(context.Background(), ratedEvent())

	// Assert
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, publisher.Close())
}

func TestNewSaramaConfig(t *testing.T) {
	cfg := NewSaramaConfig(KafkaConfig{ClientID: "pantry", RetryMax: 3, RequiredAcks: -1})

	assert.True(t, cfg.Producer.Return.Successes)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.Equal(t, 3, cfg.Producer.Retry.Max)
	assert.NoError(t, cfg.Validate())
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	publisher := NewLogPublisher(zap.New(core))

	err := publisher.Publish(context.Background(), recipe.VideoResolvedEvent{
		RecipeID: "1", URL: "https://a", Outcome: "generated", ResolvedAt: time.Now(),
	})

	require.NoError(t, err)
	entries := logs.FilterMessage("Domain event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "recipe.video.resolved", entries[0].ContextMap()["event"])
	assert.Equal(t, "1", entries[0].ContextMap()["key"])
}
