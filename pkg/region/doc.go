/*
Package region resolves declarative search regions.

An object may declare that it is searched relative to the last match of another
object, possibly owned by a different state:

	{
	  "targetType": "IMAGE",
	  "targetStateName": "PromptState",
	  "targetObjectName": "ClaudePrompt",
	  "adjustments": {"addX": 3, "addY": 10, "addW": 30, "addH": 55}
	}

The Recorder writes every successful match into a ports.MatchStore; the Resolver
reads it back and applies the adjustments. Matches stay in the store after their
owner state exits, so dependencies keep resolving across transitions.
*/
package region
