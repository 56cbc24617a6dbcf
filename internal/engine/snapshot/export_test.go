package snapshot

// StatusMap returns a copy of the component statuses of the last run.
// This is exported for testing purposes only.
func (s *Snapshotter) StatusMap() map[string]ComponentStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statusMap := make(map[string]ComponentStatus, len(s.status))
	for k, v := range s.status {
		statusMap[k.String()] = v
	}
	return statusMap
}
