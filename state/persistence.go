package state

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const DefaultFilePermissions = 0600

// SaveDevices writes the device registry to a JSON file, replacing it
// atomically.
func SaveDevices(fileLocation string, r *DeviceRegistry) error {
	data, err := json.Marshal(r.All())
	if err != nil {
		return err
	}

	return safeWriteFile(fileLocation, data, DefaultFilePermissions)
}

// LoadDevices restores device registry entries from a JSON file. A missing
// file is not an error.
func LoadDevices(fileLocation string, r *DeviceRegistry) error {
	if _, err := os.Stat(fileLocation); err != nil {
		return nil
	}

	data, err := os.ReadFile(fileLocation)
	if err != nil {
		return err
	}

	var loaded []DeviceEntry
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	for _, entry := range loaded {
		copied := entry
		r.devices[deviceKey{domain: entry.Domain, gateway: entry.Gateway, identifier: entry.Identifier}] = &copied
	}

	return nil
}

// SaveEntities writes the entity registry to a JSON file, replacing it
// atomically.
func SaveEntities(fileLocation string, r *EntityRegistry) error {
	data, err := json.Marshal(r.All())
	if err != nil {
		return err
	}

	return safeWriteFile(fileLocation, data, DefaultFilePermissions)
}

// LoadEntities restores entity registry entries from a JSON file. A missing
// file is not an error.
func LoadEntities(fileLocation string, r *EntityRegistry) error {
	if _, err := os.Stat(fileLocation); err != nil {
		return nil
	}

	data, err := os.ReadFile(fileLocation)
	if err != nil {
		return err
	}

	var loaded []EntityEntry
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	for _, entry := range loaded {
		copied := entry
		r.byUniqueID[entityKey{gateway: entry.Gateway, uniqueID: entry.UniqueID}] = &copied
		r.byEntityID[entry.EntityID] = &copied
	}

	return nil
}

// safeWriteFile replaces a file by writing a timestamped sibling first, so a
// crash mid-write never leaves a truncated registry behind.
func safeWriteFile(name string, data []byte, perm os.FileMode) error {
	ut := time.Now().UnixNano() / int64(time.Millisecond)
	baseName := fmt.Sprintf("%s-%d", name, ut)
	newName := fmt.Sprintf("%s-new", baseName)
	oldName := fmt.Sprintf("%s-old", baseName)

	if err := os.WriteFile(newName, data, perm); err != nil {
		return fmt.Errorf("failed to write new file: %w", err)
	}

	_, err := os.Stat(name)
	oldExists := !os.IsNotExist(err)

	if oldExists {
		if err := os.Rename(name, oldName); err != nil {
			return fmt.Errorf("failed to move old file to temporary location: %w", err)
		}
	}

	if err := os.Rename(newName, name); err != nil {
		return fmt.Errorf("failed to move new file to file location: %w", err)
	}

	if oldExists {
		if err := os.Remove(oldName); err != nil {
			return fmt.Errorf("failed to remove old file: %w", err)
		}
	}

	return nil
}
