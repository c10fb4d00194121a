package client

// AgentRegistryABI covers agent registration, sponsoring and lookups.
const AgentRegistryABI = `[
	{
		"inputs": [
			{"name": "name", "type": "string"},
			{"name": "metadataURI", "type": "string"}
		],
		"name": "registerAgent",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [{"name": "agentId", "type": "uint256"}],
		"name": "sponsorAgent",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [{"name": "agentId", "type": "uint256"}],
		"name": "getAgent",
		"outputs": [
			{
				"type": "tuple",
				"components": [
					{"name": "id", "type": "uint256"},
					{"name": "creator", "type": "address"},
					{"name": "name", "type": "string"},
					{"name": "metadataURI", "type": "string"},
					{"name": "totalStaked", "type": "uint256"},
					{"name": "sponsorCount", "type": "uint256"},
					{"name": "reputation", "type": "uint256"},
					{"name": "isActive", "type": "bool"},
					{"name": "createdAt", "type": "uint256"}
				]
			}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "totalAgents",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "agentId", "type": "uint256", "indexed": true},
			{"name": "creator", "type": "address", "indexed": true},
			{"name": "name", "type": "string", "indexed": false},
			{"name": "stake", "type": "uint256", "indexed": false}
		],
		"name": "AgentRegistered",
		"type": "event"
	},
	{
		"inputs": [
			{"name": "agentId", "type": "uint256", "indexed": true},
			{"name": "sponsor", "type": "address", "indexed": true},
			{"name": "amount", "type": "uint256", "indexed": false}
		],
		"name": "AgentSponsored",
		"type": "event"
	}
]`

// MarketFactoryABI covers market creation and lookups.
const MarketFactoryABI = `[
	{
		"inputs": [
			{"name": "agentId", "type": "uint256"},
			{"name": "question", "type": "string"},
			{"name": "description", "type": "string"},
			{"name": "category", "type": "uint8"},
			{"name": "outcomes", "type": "string[]"},
			{"name": "duration", "type": "uint256"}
		],
		"name": "createMarket",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"name": "marketId", "type": "uint256"}],
		"name": "getMarket",
		"outputs": [
			{
				"type": "tuple",
				"components": [
					{"name": "id", "type": "uint256"},
					{"name": "agentId", "type": "uint256"},
					{"name": "creator", "type": "address"},
					{"name": "question", "type": "string"},
					{"name": "description", "type": "string"},
					{"name": "category", "type": "uint8"},
					{"name": "outcomeCount", "type": "uint256"},
					{"name": "totalVolume", "type": "uint256"},
					{"name": "createdAt", "type": "uint256"},
					{"name": "deadline", "type": "uint256"},
					{"name": "isResolved", "type": "bool"},
					{"name": "winningOutcome", "type": "uint256"}
				]
			}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "totalMarkets",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "marketId", "type": "uint256", "indexed": true},
			{"name": "agentId", "type": "uint256", "indexed": true},
			{"name": "creator", "type": "address", "indexed": true},
			{"name": "question", "type": "string", "indexed": false}
		],
		"name": "MarketCreated",
		"type": "event"
	}
]`

// BettingEngineABI covers bet placement, odds queries and claims.
const BettingEngineABI = `[
	{
		"inputs": [
			{"name": "marketId", "type": "uint256"},
			{"name": "outcomeIndex", "type": "uint256"},
			{"name": "minPayout", "type": "uint256"}
		],
		"name": "placeBet",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "marketId", "type": "uint256"},
			{"name": "outcomeIndex", "type": "uint256"},
			{"name": "betAmount", "type": "uint256"}
		],
		"name": "getOdds",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "marketId", "type": "uint256"}],
		"name": "claimWinnings",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "marketId", "type": "uint256", "indexed": true},
			{"name": "bettor", "type": "address", "indexed": true},
			{"name": "outcomeIndex", "type": "uint256", "indexed": false},
			{"name": "amount", "type": "uint256", "indexed": false},
			{"name": "payout", "type": "uint256", "indexed": false}
		],
		"name": "BetPlaced",
		"type": "event"
	}
]`

// OracleResolverABI covers market resolution.
const OracleResolverABI = `[
	{
		"inputs": [
			{"name": "marketId", "type": "uint256"},
			{"name": "winningOutcome", "type": "uint256"}
		],
		"name": "resolveMarket",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"name": "marketId", "type": "uint256"}],
		"name": "getResolution",
		"outputs": [
			{
				"type": "tuple",
				"components": [
					{"name": "marketId", "type": "uint256"},
					{"name": "winningOutcome", "type": "uint256"},
					{"name": "resolvedAt", "type": "uint256"},
					{"name": "resolved", "type": "bool"}
				]
			}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "marketId", "type": "uint256", "indexed": true},
			{"name": "winningOutcome", "type": "uint256", "indexed": false},
			{"name": "resolver", "type": "address", "indexed": true}
		],
		"name": "MarketResolved",
		"type": "event"
	}
]`

// TreasuryManagerABI covers protocol treasury reads.
const TreasuryManagerABI = `[
	{
		"inputs": [],
		"name": "protocolTreasury",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "totalDistributed",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`
