package main

// notifyKeyPrefix namespaces notification claims in the idempotency table,
// next to the checkout submission keys.
const notifyKeyPrefix = "notify#"

func notifyKey(orderID string) string {
	return notifyKeyPrefix + orderID
}
