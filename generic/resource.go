/*
resource.go - Leave type registration and lookup

PURPOSE:
  Domain packages register the resource types that consume member
  capacity (annual leave, sick leave, ...). Storage and the API turn
  stored string IDs back into those types through this registry, so the
  generic package never names a concrete leave type.

USAGE:
  // In timeoff/types.go
  func init() {
      generic.RegisterResource(LeaveAnnual)
  }

  // In store/sqlite
  leaveType, err := generic.ParseResource("annual")

SEE ALSO:
  - types.go: ResourceType interface definition
  - timeoff/types.go: Leave type implementation
*/
package generic

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// leaveTypeRegistry maps stored IDs to the domain's leave types.
type leaveTypeRegistry struct {
	mu   sync.RWMutex
	byID map[string]ResourceType
}

var leaveTypes = &leaveTypeRegistry{byID: make(map[string]ResourceType)}

// RegisterResource makes a leave type resolvable by its ID. Registering the
// same ID again replaces the earlier type. Call it from init().
func RegisterResource(r ResourceType) {
	if r == nil || r.ResourceID() == "" {
		panic("generic: leave type registered without an ID")
	}
	leaveTypes.mu.Lock()
	leaveTypes.byID[r.ResourceID()] = r
	leaveTypes.mu.Unlock()
}

// LookupResource returns the leave type for id, or nil.
func LookupResource(id string) ResourceType {
	leaveTypes.mu.RLock()
	defer leaveTypes.mu.RUnlock()
	return leaveTypes.byID[strings.TrimSpace(id)]
}

// ParseResource is LookupResource returning ErrUnknownLeaveType for IDs
// nobody registered.
func ParseResource(id string) (ResourceType, error) {
	r := LookupResource(id)
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLeaveType, id)
	}
	return r, nil
}

// ListResources returns every registered leave type ordered by ID.
func ListResources() []ResourceType {
	leaveTypes.mu.RLock()
	out := make([]ResourceType, 0, len(leaveTypes.byID))
	for _, r := range leaveTypes.byID {
		out = append(out, r)
	}
	leaveTypes.mu.RUnlock()

	slices.SortFunc(out, func(a, b ResourceType) int { return strings.Compare(a.ResourceID(), b.ResourceID()) })
	return out
}
