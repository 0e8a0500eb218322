package store

import (
	"database/sql"
	"errors"
	"time"
)

// DeviceStorage is a string key-value store scoped to one browser device.
// It plays the role the browser's local storage plays for a client-side
// app: unauthenticated, per-device, last writer wins.
type DeviceStorage struct {
	db       *sql.DB
	deviceID string
}

// DeviceStorage returns the key-value store of a device.
func (s *Store) DeviceStorage(deviceID string) *DeviceStorage {
	return &DeviceStorage{db: s.db, deviceID: deviceID}
}

// DeviceID returns the device this storage is scoped to.
func (d *DeviceStorage) DeviceID() string {
	return d.deviceID
}

// GetItem returns the value stored under key. ok is false when the key is absent.
func (d *DeviceStorage) GetItem(key string) (string, bool, error) {
	var value string
	err := d.db.QueryRow("SELECT value FROM device_storage WHERE device_id = ? AND key = ?", d.deviceID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetItem stores value under key, replacing any previous value.
func (d *DeviceStorage) SetItem(key, value string) error {
	query := `
		INSERT INTO device_storage (device_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(device_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err := d.db.Exec(query, d.deviceID, key, value, time.Now())
	return err
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (d *DeviceStorage) RemoveItem(key string) error {
	_, err := d.db.Exec("DELETE FROM device_storage WHERE device_id = ? AND key = ?", d.deviceID, key)
	return err
}
