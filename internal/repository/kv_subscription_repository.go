package repository

import (
	"TeruelTrip-App/internal/domain/model"
	"TeruelTrip-App/internal/domain/repository"
	"context"
	"log"
)

// KVSubscriptionRepository はアラート購読をKeyValueStoreにJSON配列として保存する
type KVSubscriptionRepository struct {
	store repository.KeyValueStore
	key   string
}

func NewKVSubscriptionRepository(store repository.KeyValueStore, clientID string) repository.SubscriptionRepository {
	return &KVSubscriptionRepository{
		store: store,
		key:   NamespacedKey(clientID, model.SubscriptionsKey),
	}
}

func (r *KVSubscriptionRepository) List(ctx context.Context) ([]model.Subscription, error) {
	var subs []model.Subscription
	if err := loadJSONList(ctx, r.store, r.key, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *KVSubscriptionRepository) Add(ctx context.Context, sub model.Subscription) error {
	subs, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, s := range subs {
		if s.ID == sub.ID {
			return nil
		}
	}

	updated := append([]model.Subscription{sub}, subs...)
	if len(updated) > model.MaxSubscriptions {
		updated = updated[:model.MaxSubscriptions]
	}
	if err := saveJSONList(ctx, r.store, r.key, updated); err != nil {
		return err
	}
	log.Printf("🔔 購読を追加: %s (%d件)", sub.Summary, len(updated))
	return nil
}

func (r *KVSubscriptionRepository) Remove(ctx context.Context, id string) error {
	subs, err := r.List(ctx)
	if err != nil {
		return err
	}

	updated := make([]model.Subscription, 0, len(subs))
	for _, s := range subs {
		if s.ID != id {
			updated = append(updated, s)
		}
	}
	if len(updated) == len(subs) {
		return nil
	}
	if err := saveJSONList(ctx, r.store, r.key, updated); err != nil {
		return err
	}
	log.Printf("🔕 購読を解除: %s", id)
	return nil
}

func (r *KVSubscriptionRepository) Exists(ctx context.Context, id string) (bool, error) {
	subs, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range subs {
		if s.ID == id {
			return true, nil
		}
	}
	return false, nil
}
