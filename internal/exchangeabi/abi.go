package exchangeabi

// ExchangeABIJSON is the fragment of the 0x-protocol Exchange contract ABI
// covering the fill and cancel methods this package classifies. Only the
// inputs this package reads are declared; outputs and non-fill/cancel
// methods are omitted since NewClassifier never calls them.
const ExchangeABIJSON = `[
	{"type":"function","name":"fillOrder","inputs":[
		{"name":"order","type":"tuple","components":[
			{"name":"makerAddress","type":"address"},
			{"name":"takerAddress","type":"address"},
			{"name":"feeRecipientAddress","type":"address"},
			{"name":"senderAddress","type":"address"},
			{"name":"makerAssetAmount","type":"uint256"},
			{"name":"takerAssetAmount","type":"uint256"},
			{"name":"makerFee","type":"uint256"},
			{"name":"takerFee","type":"uint256"},
			{"name":"expirationTimeSeconds","type":"uint256"},
			{"name":"salt","type":"uint256"},
			{"name":"makerAssetData","type":"bytes"},
			{"name":"takerAssetData","type":"bytes"}
		]},
		{"name":"takerAssetFillAmount","type":"uint256"},
		{"name":"signature","type":"bytes"}
	]},
	{"type":"function","name":"fillOrKillOrder","inputs":[
		{"name":"order","type":"tuple","components":[
			{"name":"makerAddress","type":"address"},
			{"name":"takerAddress","type":"address"},
			{"name":"feeRecipientAddress","type":"address"},
			{"name":"senderAddress","type":"address"},
			{"name":"makerAssetAmount","type":"uint256"},
			{"name":"takerAssetAmount","type":"uint256"},
			{"name":"makerFee","type":"uint256"},
			{"name":"takerFee","type":"uint256"},
			{"name":"expirationTimeSeconds","type":"uint256"},
			{"name":"salt","type":"uint256"},
			{"name":"makerAssetData","type":"bytes"},
			{"name":"takerAssetData","type":"bytes"}
		]},
		{"name":"takerAssetFillAmount","type":"uint256"},
		{"name":"signature","type":"bytes"}
	]},
	{"type":"function","name":"batchFillOrders","inputs":[
		{"name":"orders","type":"tuple[]","components":[
			{"name":"makerAddress","type":"address"},
			{"name":"takerAddress","type":"address"},
			{"name":"feeRecipientAddress","type":"address"},
			{"name":"senderAddress","type":"address"},
			{"name":"makerAssetAmount","type":"uint256"},
			{"name":"takerAssetAmount","type":"uint256"},
			{"name":"makerFee","type":"uint256"},
			{"name":"takerFee","type":"uint256"},
			{"name":"expirationTimeSeconds","type":"uint256"},
			{"name":"salt","type":"uint256"},
			{"name":"makerAssetData","type":"bytes"},
			{"name":"takerAssetData","type":"bytes"}
		]},
		{"name":"takerAssetFillAmounts","type":"uint256[]"},
		{"name":"signatures","type":"bytes[]"}
	]},
	{"type":"function","name":"batchFillOrKillOrders","inputs":[
		{"name":"orders","type":"tuple[]","components":[
			{"name":"makerAddress","type":"address"},
			{"name":"takerAddress","type":"address"},
			{"name":"feeRecipientAddress","type":"address"},
			{"name":"senderAddress","type":"address"},
			{"name":"makerAssetAmount","type":"uint256"},
			{"name":"takerAssetAmount","type":"uint256"},
			{"name":"makerFee","type":"uint256"},
			{"name":"takerFee","type":"uint256"},
			{"name":"expirationTimeSeconds","type":"uint256"},
			{"name":"salt","type":"uint256"},
			{"name":"makerAssetData","type":"bytes"},
			{"name":"takerAssetData","type":"bytes"}
		]},
		{"name":"takerAssetFillAmounts","type":"uint256[]"},
		{"name":"signatures","type":"bytes[]"}
	]},
	{"type":"function","name":"batchFillOrdersNoThrow","inputs":[
		{"name":"orders","type":"tuple[]","components":[
			{"name":"makerAddress","type":"address"},
			{"name":"takerAddress","type":"address"},
			{"name":"feeRecipientAddress","type":"address"},
			{"name":"senderAddress","type":"address"},
			{"name":"makerAssetAmount","type":"uint256"},
			{"name":"takerAssetAmount","type":"uint256"},
			{"name":"makerFee","type":"uint256"},
			{"name":"takerFee","type":"uint256"},
			{"name":"expirationTimeSeconds","type":"uint256"},
			{"name":"salt","type":"uint256"},
			{"name":"makerAssetData","type":"bytes"},
			{"name":"takerAssetData","type":"bytes"}
		]},
		{"name":"takerAssetFillAmounts","type":"uint256[]"},
		{"name":"signatures","type":"bytes[]"}
	]},
	{"type":"function","name":"marketSellOrdersFillOrKill","inputs":[
		{"name":"orders","type":"tuple[]","components":[
			{"name":"makerAddress","type":"address"},
			{"name":"takerAddress","type":"address"},
			{"name":"feeRecipientAddress","type":"address"},
			{"name":"senderAddress","type":"address"},
			{"name":"makerAssetAmount","type":"uint256"},
			{"name":"takerAssetAmount","type":"uint256"},
			{"name":"makerFee","type":"uint256"},
			{"name":"takerFee","type":"uint256"},
			{"name":"expirationTimeSeconds","type":"uint256"},
			{"name":"salt","type":"uint256"},
			{"name":"makerAssetData","type":"bytes"},
			{"name":"takerAssetData","type":"bytes"}
		]},
		{"name":"takerAssetFillAmount","type":"uint256"},
		{"name":"signatures","type":"bytes[]"}
	]},
	{"type":"function","name":"marketSellOrdersNoThrow","inputs":[
		{"name":"orders","type":"tuple[]","components":[
			{"name":"makerAddress","type":"address"},
			{"name":"takerAddress","type":"address"},
			{"name":"feeRecipientAddress","type":"address"},
			{"name":"senderAddress","type":"address"},
			{"name":"makerAssetAmount","type":"uint256"},
			{"name":"takerAssetAmount","type":"uint256"},
			{"name":"makerFee","type":"uint256"},
			{"name":"takerFee","type":"uint256"},
			{"name":"expirationTimeSeconds","type":"uint256"},
			{"name":"salt","type":"uint256"},
			{"name":"makerAssetData","type":"bytes"},
			{"name":"takerAssetData","type":"bytes"}
		]},
		{"name":"takerAssetFillAmount","type":"uint256"},
		{"name":"signatures","type":"bytes[]"}
	]},
	{"type":"function","name":"marketBuyOrdersFillOrKill","inputs":[
		{"name":"orders","type":"tuple[]","components":[
			{"name":"makerAddress","type":"address"},
			{"name":"takerAddress","type":"address"},
			{"name":"feeRecipientAddress","type":"address"},
			{"name":"senderAddress","type":"address"},
			{"name":"makerAssetAmount","type":"uint256"},
			{"name":"takerAssetAmount","type":"uint256"},
			{"name":"makerFee","type":"uint256"},
			{"name":"takerFee","type":"uint256"},
			{"name":"expirationTimeSeconds","type":"uint256"},
			{"name":"salt","type":"uint256"},
			{"name":"makerAssetData","type":"bytes"},
			{"name":"takerAssetData","type":"bytes"}
		]},
		{"name":"makerAssetFillAmount","type":"uint256"},
		{"name":"signatures","type":"bytes[]"}
	]},
	{"type":"function","name":"marketBuyOrdersNoThrow","inputs":[
		{"name":"orders","type":"tuple[]","components":[
			{"name":"makerAddress","type":"address"},
			{"name":"takerAddress","type":"address"},
			{"name":"feeRecipientAddress","type":"address"},
			{"name":"senderAddress","type":"address"},
			{"name":"makerAssetAmount","type":"uint256"},
			{"name":"takerAssetAmount","type":"uint256"},
			{"name":"makerFee","type":"uint256"},
			{"name":"takerFee","type":"uint256"},
			{"name":"expirationTimeSeconds","type":"uint256"},
			{"name":"salt","type":"uint256"},
			{"name":"makerAssetData","type":"bytes"},
			{"name":"takerAssetData","type":"bytes"}
		]},
		{"name":"makerAssetFillAmount","type":"uint256"},
		{"name":"signatures","type":"bytes[]"}
	]},
	{"type":"function","name":"cancelOrder","inputs":[
		{"name":"order","type":"tuple","components":[
			{"name":"makerAddress","type":"address"},
			{"name":"takerAddress","type":"address"},
			{"name":"feeRecipientAddress","type":"address"},
			{"name":"senderAddress","type":"address"},
			{"name":"makerAssetAmount","type":"uint256"},
			{"name":"takerAssetAmount","type":"uint256"},
			{"name":"makerFee","type":"uint256"},
			{"name":"takerFee","type":"uint256"},
			{"name":"expirationTimeSeconds","type":"uint256"},
			{"name":"salt","type":"uint256"},
			{"name":"makerAssetData","type":"bytes"},
			{"name":"takerAssetData","type":"bytes"}
		]}
	]},
	{"type":"function","name":"batchCancelOrders","inputs":[
		{"name":"orders","type":"tuple[]","components":[
			{"name":"makerAddress","type":"address"},
			{"name":"takerAddress","type":"address"},
			{"name":"feeRecipientAddress","type":"address"},
			{"name":"senderAddress","type":"address"},
			{"name":"makerAssetAmount","type":"uint256"},
			{"name":"takerAssetAmount","type":"uint256"},
			{"name":"makerFee","type":"uint256"},
			{"name":"takerFee","type":"uint256"},
			{"name":"expirationTimeSeconds","type":"uint256"},
			{"name":"salt","type":"uint256"},
			{"name":"makerAssetData","type":"bytes"},
			{"name":"takerAssetData","type":"bytes"}
		]}
	]}
]`
