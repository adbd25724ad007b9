package entities

// voiceTable is the compiled-in voice catalog. Display names are
// derived from the ids when the catalog loads.
var voiceTable = []Voice{
	// English
	{ID: "en-US-AvaMultilingualNeural", Language: "English", Multilingual: true},
	{ID: "en-US-AndrewMultilingualNeural", Language: "English", Multilingual: true},
	{ID: "en-US-EmmaMultilingualNeural", Language: "English", Multilingual: true},
	{ID: "en-US-BrianMultilingualNeural", Language: "English", Multilingual: true},
	{ID: "en-US-AriaNeural", Language: "English"},
	{ID: "en-US-GuyNeural", Language: "English"},
	{ID: "en-US-JennyNeural", Language: "English"},
	{ID: "en-US-MichelleNeural", Language: "English"},
	{ID: "en-GB-SoniaNeural", Language: "English"},
	{ID: "en-GB-RyanNeural", Language: "English"},
	{ID: "en-GB-LibbyNeural", Language: "English"},
	{ID: "en-AU-NatashaNeural", Language: "English"},
	{ID: "en-AU-WilliamNeural", Language: "English"},

	// Spanish
	{ID: "es-ES-ElviraNeural", Language: "Spanish"},
	{ID: "es-ES-AlvaroNeural", Language: "Spanish"},
	{ID: "es-MX-DaliaNeural", Language: "Spanish"},
	{ID: "es-MX-JorgeNeural", Language: "Spanish"},

	// French
	{ID: "fr-FR-VivienneMultilingualNeural", Language: "French", Multilingual: true},
	{ID: "fr-FR-RemyMultilingualNeural", Language: "French", Multilingual: true},
	{ID: "fr-FR-DeniseNeural", Language: "French"},
	{ID: "fr-FR-HenriNeural", Language: "French"},
	{ID: "fr-FR-EloiseNeural", Language: "French"},
	{ID: "fr-CA-SylvieNeural", Language: "French"},
	{ID: "fr-CA-AntoineNeural", Language: "French"},

	// German
	{ID: "de-DE-SeraphinaMultilingualNeural", Language: "German", Multilingual: true},
	{ID: "de-DE-FlorianMultilingualNeural", Language: "German", Multilingual: true},
	{ID: "de-DE-KatjaNeural", Language: "German"},
	{ID: "de-DE-ConradNeural", Language: "German"},
	{ID: "de-DE-AmalaNeural", Language: "German"},

	// Italian
	{ID: "it-IT-GiuseppeMultilingualNeural", Language: "Italian", Multilingual: true},
	{ID: "it-IT-ElsaNeural", Language: "Italian"},
	{ID: "it-IT-IsabellaNeural", Language: "Italian"},
	{ID: "it-IT-DiegoNeural", Language: "Italian"},

	// Portuguese
	{ID: "pt-BR-ThalitaMultilingualNeural", Language: "Portuguese", Multilingual: true},
	{ID: "pt-BR-FranciscaNeural", Language: "Portuguese"},
	{ID: "pt-BR-AntonioNeural", Language: "Portuguese"},
	{ID: "pt-PT-RaquelNeural", Language: "Portuguese"},
	{ID: "pt-PT-DuarteNeural", Language: "Portuguese"},

	// Russian
	{ID: "ru-RU-SvetlanaNeural", Language: "Russian"},
	{ID: "ru-RU-DmitryNeural", Language: "Russian"},

	// Japanese
	{ID: "ja-JP-NanamiNeural", Language: "Japanese"},
	{ID: "ja-JP-KeitaNeural", Language: "Japanese"},

	// Korean
	{ID: "ko-KR-HyunsuMultilingualNeural", Language: "Korean", Multilingual: true},
	{ID: "ko-KR-SunHiNeural", Language: "Korean"},
	{ID: "ko-KR-InJoonNeural", Language: "Korean"},

	// Chinese
	{ID: "zh-CN-XiaoxiaoNeural", Language: "Chinese"},
	{ID: "zh-CN-YunxiNeural", Language: "Chinese"},
	{ID: "zh-CN-YunjianNeural", Language: "Chinese"},
	{ID: "zh-CN-XiaoyiNeural", Language: "Chinese"},
}
