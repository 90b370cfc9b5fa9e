package paths

import (
	"container/list"

	"github.com/dd0wney/flowattack/pkg/graph"
)

// ShortestPath finds a fewest-hop path from startID to endID with BFS.
// Capacities are ignored: the result describes topology, so an edge that was
// attacked down to zero still connects its endpoints. Ties resolve towards
// lower node ids.
//
// Returns nil when no path exists and [startID] when the endpoints are equal
// and present.
func ShortestPath(g *graph.Graph, startID, endID graph.NodeID) []graph.NodeID {
	if !g.HasNode(startID) || !g.HasNode(endID) {
		return nil
	}
	if startID == endID {
		return []graph.NodeID{startID}
	}

	parent := map[graph.NodeID]graph.NodeID{startID: startID}
	queue := list.New()
	queue.PushBack(startID)

	for queue.Len() > 0 {
		currentID := queue.Remove(queue.Front()).(graph.NodeID)

		for _, neighborID := range g.Successors(currentID) {
			if _, seen := parent[neighborID]; seen {
				continue
			}
			parent[neighborID] = currentID
			if neighborID == endID {
				return reconstructPath(parent, startID, endID)
			}
			queue.PushBack(neighborID)
		}
	}

	return nil
}

// Distances returns the hop distance from sourceID to every reachable node.
func Distances(g *graph.Graph, sourceID graph.NodeID) map[graph.NodeID]int {
	distances := make(map[graph.NodeID]int)
	if !g.HasNode(sourceID) {
		return distances
	}
	distances[sourceID] = 0

	queue := list.New()
	queue.PushBack(sourceID)

	for queue.Len() > 0 {
		currentID := queue.Remove(queue.Front()).(graph.NodeID)
		currentDist := distances[currentID]

		for _, neighborID := range g.Successors(currentID) {
			if _, visited := distances[neighborID]; !visited {
				distances[neighborID] = currentDist + 1
				queue.PushBack(neighborID)
			}
		}
	}

	return distances
}

func reconstructPath(parent map[graph.NodeID]graph.NodeID, startID, endID graph.NodeID) []graph.NodeID {
	path := []graph.NodeID{endID}
	for node := endID; node != startID; {
		node = parent[node]
		path = append(path, node)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathFromNodes converts a node sequence into its edge keys.
func PathFromNodes(nodes []graph.NodeID) Path {
	if len(nodes) < 2 {
		return nil
	}
	p := make(Path, 0, len(nodes)-1)
	for i := 0; i+1 < len(nodes); i++ {
		p = append(p, graph.EdgeKey{From: nodes[i], To: nodes[i+1]})
	}
	return p
}
