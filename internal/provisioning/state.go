package provisioning

import (
	"sync"

	"github.com/cephup/cephup/internal/config"
	"github.com/cephup/cephup/internal/util/naming"
)

// Role identifies what part an instance plays in the deployment.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
	RoleClient    Role = "client"
)

// NodeState is the lifecycle state of one node record.
//
// Cluster nodes advance Created → AgentReady → StorageInstalled →
// (primary: Bootstrapped | secondary: Joined) → Configured. StateFailed
// is terminal and reachable from any non-terminal state.
type NodeState string

const (
	StateCreated          NodeState = "Created"
	StateAgentReady       NodeState = "AgentReady"
	StateStorageInstalled NodeState = "StorageInstalled"
	StateBootstrapped     NodeState = "Bootstrapped"
	StateJoined           NodeState = "Joined"
	StateConfigured       NodeState = "Configured"
	StateFailed           NodeState = "Failed"
)

// Node is the record for one provisioned machine. It is owned by State
// and mutated only through State methods.
type Node struct {
	Name         string
	Role         Role
	State        NodeState
	Address      string
	LastErr      error
	JoinAttempts int
}

// SessionStatus is the overall status of one deploy/destroy lifecycle.
type SessionStatus string

const (
	StatusProvisioning  SessionStatus = "provisioning"
	StatusBootstrapping SessionStatus = "bootstrapping"
	StatusExporting     SessionStatus = "exporting"
	StatusReady         SessionStatus = "ready"
	StatusFailed        SessionStatus = "failed"
	StatusDestroyed     SessionStatus = "destroyed"
)

// State is the deployment session: the topology request, every node
// record in creation order, and the overall status. Phases mutate it
// concurrently during parallel steps, so access goes through the mutex.
type State struct {
	mu sync.Mutex

	Request config.TopologyRequest
	Status  SessionStatus

	nodes []*Node

	// Populated once the share exporter completes.
	Credentials    config.ShareCredentials
	PrimaryAddress string
	ClientMount    string

	// RolledBack records whether a failed deploy tore its nodes down.
	RolledBack bool
}

// NewState creates the session for a request, with one Created node
// record per requested cluster node. The first node is the primary; the
// client record is added later only if the client machine is launched.
func NewState(req config.TopologyRequest) *State {
	s := &State{
		Request: req,
		Status:  StatusProvisioning,
	}
	for i := 1; i <= req.NodeCount; i++ {
		role := RoleSecondary
		if i == 1 {
			role = RolePrimary
		}
		s.nodes = append(s.nodes, &Node{
			Name:  naming.Node(req.BaseName, i),
			Role:  role,
			State: StateCreated,
		})
	}
	return s
}

// SetStatus updates the session status.
func (s *State) SetStatus(status SessionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = status
}

// AddClient appends the client node record.
func (s *State) AddClient(name string) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := &Node{Name: name, Role: RoleClient, State: StateCreated}
	s.nodes = append(s.nodes, n)
	return n
}

// Nodes returns a snapshot of all node records in creation order.
func (s *State) Nodes() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// ClusterNodes returns the non-client node records in creation order.
func (s *State) ClusterNodes() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Node
	for _, n := range s.nodes {
		if n.Role != RoleClient {
			out = append(out, n)
		}
	}
	return out
}

// Primary returns the primary node record.
func (s *State) Primary() *Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.nodes {
		if n.Role == RolePrimary {
			return n
		}
	}
	return nil
}

// Secondaries returns the secondary node records in creation order.
func (s *State) Secondaries() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Node
	for _, n := range s.nodes {
		if n.Role == RoleSecondary {
			out = append(out, n)
		}
	}
	return out
}

// Members returns the cluster nodes that are part of the storage
// cluster, in creation order.
func (s *State) Members() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Node
	for _, n := range s.nodes {
		if n.Role == RoleClient {
			continue
		}
		switch n.State {
		case StateBootstrapped, StateJoined, StateConfigured:
			out = append(out, n)
		}
	}
	return out
}

// NodeState returns a node's current state, or StateFailed for a name
// the session does not know.
func (s *State) NodeState(name string) NodeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.find(name); n != nil {
		return n.State
	}
	return StateFailed
}

// SetNodeState transitions a node to the given state.
func (s *State) SetNodeState(name string, state NodeState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.find(name); n != nil {
		n.State = state
	}
}

// SetNodeAddress records a node's assigned address.
func (s *State) SetNodeAddress(name, address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.find(name); n != nil {
		n.Address = address
	}
}

// FailNode marks a node Failed with the error that stopped it.
func (s *State) FailNode(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.find(name); n != nil {
		n.State = StateFailed
		n.LastErr = err
	}
}

// RecordJoinAttempt increments and returns a node's join attempt count.
func (s *State) RecordJoinAttempt(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.find(name); n != nil {
		n.JoinAttempts++
		return n.JoinAttempts
	}
	return 0
}

// MemberCount returns the number of nodes currently part of the storage
// cluster: the bootstrapped primary plus every joined secondary. Nodes
// that advanced past those states still count.
func (s *State) MemberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.nodes {
		switch n.State {
		case StateBootstrapped, StateJoined, StateConfigured:
			if n.Role != RoleClient {
				count++
			}
		}
	}
	return count
}

// RecordExport stores the export endpoint and credentials once the
// share is live.
func (s *State) RecordExport(primaryAddress string, creds config.ShareCredentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PrimaryAddress = primaryAddress
	s.Credentials = creds
}

// RecordClientMount stores where the client machine mounted the share.
func (s *State) RecordClientMount(mountPoint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClientMount = mountPoint
}

// FailedNodes returns the node records in the terminal failure state.
func (s *State) FailedNodes() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Node
	for _, n := range s.nodes {
		if n.State == StateFailed {
			out = append(out, n)
		}
	}
	return out
}

func (s *State) find(name string) *Node {
	for _, n := range s.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}
