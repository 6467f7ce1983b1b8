/*
Package config loads state graph definitions from YAML or JSON.

	name: claude-automator
	initial: [HOME]
	states:
	  - name: HOME
	    pathCost: 1
	    objects:
	      - name: worldButton
	        kind: IMAGE
	  - name: WORLD
	    pathCost: 10
	    arrival: exists:WORLD
	    objects:
	      - name: searchButton
	        kind: IMAGE
	        region: {x: 0, y: 0, w: 400, h: 300}
	transitions:
	  - from: HOME
	    to: WORLD
	    action: click:HOME.worldButton

Action and arrival names are resolved through a registry.Registry when the
definition is applied to a graph.
*/
package config
